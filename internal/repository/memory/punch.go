// Package memory holds in-process repositories for tests and the offline CLI.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

type punchRepositoryImpl struct {
	mu      sync.RWMutex
	punches map[string]attendance.DatedPunch
}

func NewPunchRepository() attendance.PunchRepository {
	return &punchRepositoryImpl{
		punches: make(map[string]attendance.DatedPunch),
	}
}

// ListPunches implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListPunches(_ context.Context, from string, to string) ([]attendance.Punch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]attendance.DatedPunch, 0, len(r.punches))
	for _, p := range r.punches {
		if p.Date >= from && p.Date <= to {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].ID < matched[j].ID
	})

	punches := make([]attendance.Punch, 0, len(matched))
	for _, p := range matched {
		punches = append(punches, p.Punch)
	}
	return punches, nil
}

// SavePunches implements attendance.PunchRepository.
func (r *punchRepositoryImpl) SavePunches(_ context.Context, punches []attendance.DatedPunch) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range punches {
		r.punches[p.ID] = p
	}
	return len(punches), nil
}
