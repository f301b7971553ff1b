package shot

import "time"

// DefaultTimezone is assumed for users who never set one.
const DefaultTimezone = "America/Toronto"

// LoadLocation resolves a user timezone name, falling back to the
// default zone and finally UTC when the name is empty or unknown.
func LoadLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// LocalClock rebuilds t's wall-clock reading in loc as a UTC instant.
// Two values converted this way compare by what the user's clock showed,
// which is how all challenge windows and day boundaries are judged.
func LocalClock(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()
	hh, mm, ss := lt.Clock()
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

// WeekStart returns Monday 00:00 of now's week in loc.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	lt := now.In(loc)
	// Days since Monday; Sunday counts as six days in.
	offset := (int(lt.Weekday()) + 6) % 7
	y, m, d := lt.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}
