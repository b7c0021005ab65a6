package attendance

import (
	"context"
)

// PunchRepository stores the raw punch snapshot the engine reads from.
// Computed records are never persisted.
type PunchRepository interface {
	// ListPunches returns raw punches recorded on calendar dates in [from, to].
	ListPunches(ctx context.Context, from string, to string) ([]Punch, error)

	// SavePunches upserts punches by ID and returns how many were written.
	SavePunches(ctx context.Context, punches []DatedPunch) (int, error)
}
