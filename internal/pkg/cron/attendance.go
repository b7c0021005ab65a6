package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/sse"
)

const (
	// LiveTopic is the hub topic live attendance snapshots are published on.
	LiveTopic = "live"

	LiveEventName = "attendance.live"
)

// LiveSnapshot is the payload of a live attendance event.
type LiveSnapshot struct {
	GeneratedAt time.Time                              `json:"generated_at"`
	Working     int                                    `json:"working"`
	Records     []attendance.ProcessedAttendanceRecord `json:"records"`
}

// LiveAttendanceJobs re-runs the pipeline for the current shift-days so
// "still working" hours keep advancing for connected clients.
type LiveAttendanceJobs struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
	interval          time.Duration
	now               func() time.Time
}

func NewLiveAttendanceJobs(attendanceService attendance.AttendanceService, hub *sse.Hub, interval time.Duration) *LiveAttendanceJobs {
	return &LiveAttendanceJobs{
		attendanceService: attendanceService,
		hub:               hub,
		interval:          interval,
		now:               time.Now,
	}
}

func (j *LiveAttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_live_attendance", j.interval, j.RefreshLiveAttendance)
}

// RefreshLiveAttendance publishes a fresh snapshot when anyone is listening.
func (j *LiveAttendanceJobs) RefreshLiveAttendance(ctx context.Context) error {
	if j.hub.SubscriberCount(LiveTopic) == 0 {
		return nil
	}

	records, err := j.attendanceService.LiveSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute live snapshot: %w", err)
	}

	snapshot := NewLiveSnapshot(records, j.now())
	delivered := j.hub.Publish(LiveTopic, sse.Event{
		Event: LiveEventName,
		Data:  snapshot,
	})

	slog.Debug("Cron: live attendance published", "records", len(records), "working", snapshot.Working, "delivered", delivered)
	return nil
}

// NewLiveSnapshot wraps records into the live event payload.
func NewLiveSnapshot(records []attendance.ProcessedAttendanceRecord, at time.Time) LiveSnapshot {
	working := 0
	for _, rec := range records {
		if rec.Status == attendance.StatusWorking {
			working++
		}
	}
	return LiveSnapshot{
		GeneratedAt: at.UTC(),
		Working:     working,
		Records:     records,
	}
}
