package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

type timedPunch struct {
	punch attendance.AttendancePunch
	at    time.Time
}

// timePunches resolves punches to instants, skipping unparseable clocks.
func timePunches(punches []attendance.AttendancePunch, bucketDate string, opts Options) []timedPunch {
	out := make([]timedPunch, 0, len(punches))
	for _, p := range punches {
		at, ok := punchInstant(p, bucketDate, opts.Config.ShiftStartHour, opts.DataLocation)
		if !ok {
			continue
		}
		out = append(out, timedPunch{punch: p, at: at})
	}
	return out
}

// DetectSessions segments the filtered, shift-ordered punches of one bucket
// into work sessions.
//
//   - 0 punches: no session.
//   - 1 punch: an open session up to now if the bucket is today's shift-day
//     and the punch is in the past; otherwise none (missed checkout).
//   - one device, odd count: a single session from first to last punch.
//   - one device, even count: sequential pairs (p0,p1), (p2,p3), ...
//   - several devices, odd count: a single session from first to last punch.
//   - several devices, even count: split wherever the gap between a check-out
//     and the following check-in exceeds SessionGapThreshold.
func DetectSessions(punches []attendance.AttendancePunch, bucketDate string, opts Options) []attendance.Session {
	points := timePunches(punches, bucketDate, opts)
	sessions := []attendance.Session{}
	n := len(points)

	session := func(start, end time.Time) attendance.Session {
		return attendance.Session{
			Start: start.In(opts.UserLocation),
			End:   end.In(opts.UserLocation),
		}
	}

	switch {
	case n == 0:
		return sessions
	case n == 1:
		p := points[0]
		if bucketDate == opts.today() && p.at.Before(opts.Now) {
			open := session(p.at, opts.Now)
			open.Open = true
			sessions = append(sessions, open)
		}
		return sessions
	case n%2 == 1:
		return append(sessions, session(points[0].at, points[n-1].at))
	}

	if sameDevice(points) {
		for i := 0; i+1 < n; i += 2 {
			sessions = append(sessions, session(points[i].at, points[i+1].at))
		}
		return sessions
	}

	start := points[0].at
	for i := 1; i+1 < n; i += 2 {
		checkOut := points[i].at
		checkIn := points[i+1].at
		if checkIn.Sub(checkOut) > SessionGapThreshold {
			sessions = append(sessions, session(start, checkOut))
			start = checkIn
		}
	}
	return append(sessions, session(start, points[n-1].at))
}

func sameDevice(points []timedPunch) bool {
	for _, p := range points[1:] {
		if p.punch.PunchFrom != points[0].punch.PunchFrom {
			return false
		}
	}
	return true
}
