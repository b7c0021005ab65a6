package attendance

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	dateTimeLayout = dateLayout + " " + clockLayout

	secondsPerDay = 24 * 3600

	// DefaultDataTimezone is the zone raw punch clock strings are expressed in
	// unless configured otherwise.
	DefaultDataTimezone = "Europe/Berlin"
)

// SessionGapThreshold splits mixed-device sessions. It is intentionally not
// part of ShiftConfig: changing it alters payroll outputs.
const SessionGapThreshold = 15 * time.Minute

// Options is everything one pipeline run depends on. Now is evaluated once
// by the caller, so two runs with equal Options produce equal output.
type Options struct {
	Config       attendance.ShiftConfig
	DataLocation *time.Location
	UserLocation *time.Location
	Now          time.Time
}

// NewOptions fills missing locations with the default data timezone and
// falls back to UTC if the zone database is unavailable.
func NewOptions(cfg attendance.ShiftConfig, dataLoc, userLoc *time.Location, now time.Time) Options {
	if dataLoc == nil {
		loc, err := time.LoadLocation(DefaultDataTimezone)
		if err != nil {
			loc = time.UTC
		}
		dataLoc = loc
	}
	if userLoc == nil {
		userLoc = dataLoc
	}
	return Options{
		Config:       cfg,
		DataLocation: dataLoc,
		UserLocation: userLoc,
		Now:          now,
	}
}

// today returns the current calendar date in the data timezone.
func (o Options) today() string {
	return o.Now.In(o.DataLocation).Format(dateLayout)
}

// clockSeconds parses "HH:mm:ss" (or "HH:mm") into seconds of day.
func clockSeconds(clock string) (int, bool) {
	if len(clock) < 5 || clock[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(clock[0:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(clock[3:5])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	s := 0
	if len(clock) >= 8 && clock[5] == ':' {
		s, err = strconv.Atoi(clock[6:8])
		if err != nil || s < 0 || s > 59 {
			return 0, false
		}
	}
	return h*3600 + m*60 + s, true
}

// punchHour returns the clock hour of a punch, or -1 if unparseable.
func punchHour(p attendance.AttendancePunch) int {
	secs, ok := clockSeconds(p.PunchTime)
	if !ok {
		return -1
	}
	return secs / 3600
}

// shiftSeconds is the cutoff-adjusted sort key: clock times before the
// cutoff belong to the tail of the shift and get a virtual +24h.
func shiftSeconds(p attendance.AttendancePunch, cutoff int) int {
	secs, _ := clockSeconds(p.PunchTime)
	if secs/3600 < cutoff {
		secs += secondsPerDay
	}
	return secs
}

// addDays shifts a YYYY-MM-DD date by n calendar days.
func addDays(date string, n int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}

// punchInstant resolves a punch to an absolute time in loc. Punches without
// an explicit date take the bucket date, shifted a day when before cutoff.
func punchInstant(p attendance.AttendancePunch, bucketDate string, cutoff int, loc *time.Location) (time.Time, bool) {
	date := p.PunchDate
	if date == "" {
		date = bucketDate
		if punchHour(p) < cutoff {
			date = addDays(bucketDate, 1)
		}
	}
	secs, ok := clockSeconds(p.PunchTime)
	if !ok {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), secs/3600, (secs/60)%60, secs%60, 0, loc)
	return t, true
}

// activePunches drops ignored punches into a new slice.
func activePunches(punches []attendance.AttendancePunch) []attendance.AttendancePunch {
	out := make([]attendance.AttendancePunch, 0, len(punches))
	for _, p := range punches {
		if !p.Ignored {
			out = append(out, p)
		}
	}
	return out
}
