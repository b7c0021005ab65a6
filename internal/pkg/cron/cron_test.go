package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	attendance.AttendanceService
	calls   atomic.Int32
	records []attendance.ProcessedAttendanceRecord
	err     error
}

func (s *stubAttendanceService) LiveSnapshot(context.Context) ([]attendance.ProcessedAttendanceRecord, error) {
	s.calls.Add(1)
	return s.records, s.err
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32
	scheduler := NewScheduler(context.Background())
	scheduler.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	scheduler.AddJob("ignored", 0, func(ctx context.Context) error {
		t.Error("job with zero interval must not run")
		return nil
	})

	scheduler.Start()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	scheduler.Stop()

	scheduler.RunOnce(context.Background())
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_StopsWithParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scheduler := NewScheduler(ctx)
	scheduler.AddJob("noop", time.Millisecond, func(ctx context.Context) error { return nil })
	scheduler.Start()

	cancel()
	done := make(chan struct{})
	go func() {
		scheduler.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after parent cancellation")
	}
}

func TestRefreshLiveAttendance(t *testing.T) {
	hub := sse.NewHub(4)
	svc := &stubAttendanceService{records: []attendance.ProcessedAttendanceRecord{
		{Status: attendance.StatusWorking},
		{Status: attendance.StatusComplete},
	}}
	jobs := NewLiveAttendanceJobs(svc, hub, time.Minute)
	fixed := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return fixed }

	require.NoError(t, jobs.RefreshLiveAttendance(context.Background()))
	assert.Equal(t, int32(0), svc.calls.Load(), "nothing is computed without subscribers")

	events, cleanup := hub.Subscribe(LiveTopic)
	defer cleanup()

	require.NoError(t, jobs.RefreshLiveAttendance(context.Background()))
	event := <-events
	assert.Equal(t, LiveEventName, event.Event)
	snapshot, ok := event.Data.(LiveSnapshot)
	require.True(t, ok)
	assert.Equal(t, 1, snapshot.Working)
	assert.Len(t, snapshot.Records, 2)
	assert.Equal(t, fixed, snapshot.GeneratedAt)

	svc.err = errors.New("boom")
	assert.ErrorContains(t, jobs.RefreshLiveAttendance(context.Background()), "boom")
}
