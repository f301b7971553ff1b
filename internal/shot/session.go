package shot

import "time"

// RawSession is a practice session as stored by the mobile clients. The
// clients disagree on how they encode duration, so every known field is
// kept and resolved during normalization. Missing numeric fields stay
// zero and never cause an error.
type RawSession struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`

	DurationMinutes *float64   `json:"duration,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	DurationMillis  *float64   `json:"duration_ms,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`

	Total         int `json:"total,omitempty"`
	TotalWrist    int `json:"total_wrist,omitempty"`
	TotalSnap     int `json:"total_snap,omitempty"`
	TotalSlap     int `json:"total_slap,omitempty"`
	TotalBackhand int `json:"total_backhand,omitempty"`

	WristTargetsHit    int `json:"wrist_targets_hit,omitempty"`
	SnapTargetsHit     int `json:"snap_targets_hit,omitempty"`
	SlapTargetsHit     int `json:"slap_targets_hit,omitempty"`
	BackhandTargetsHit int `json:"backhand_targets_hit,omitempty"`
}

// Session is the normalized form every downstream computation uses.
// Duration is in minutes; negative means no duration was recorded.
type Session struct {
	Date       time.Time `json:"date"`
	Duration   float64   `json:"duration"`
	Shots      Counts    `json:"shots"`
	TargetsHit Counts    `json:"targets_hit"`
}

// Normalize resolves a raw session into the canonical form. Duration
// encodings are tried in order of preference: minutes, seconds,
// milliseconds, then a start/end timestamp pair.
func Normalize(raw RawSession) Session {
	s := Session{
		Date:     raw.Date,
		Duration: -1,
		Shots: Counts{
			Wrist:    raw.TotalWrist,
			Snap:     raw.TotalSnap,
			Slap:     raw.TotalSlap,
			Backhand: raw.TotalBackhand,
		},
		TargetsHit: Counts{
			Wrist:    raw.WristTargetsHit,
			Snap:     raw.SnapTargetsHit,
			Slap:     raw.SlapTargetsHit,
			Backhand: raw.BackhandTargetsHit,
		},
	}

	switch {
	case raw.DurationMinutes != nil:
		s.Duration = *raw.DurationMinutes
	case raw.DurationSeconds != nil:
		s.Duration = *raw.DurationSeconds / 60
	case raw.DurationMillis != nil:
		s.Duration = *raw.DurationMillis / 60000
	case raw.StartTime != nil && raw.EndTime != nil:
		s.Duration = raw.EndTime.Sub(*raw.StartTime).Minutes()
	}

	return s
}

// SeasonTotal returns the raw session's declared shot total, falling
// back to the per-type sum when the client omitted it.
func (r RawSession) SeasonTotal() int {
	if r.Total > 0 {
		return r.Total
	}
	return r.TotalWrist + r.TotalSnap + r.TotalSlap + r.TotalBackhand
}

// HasAccuracy reports whether any target hits were recorded. Sessions
// without hit tracking are excluded from accuracy denominators.
func (s Session) HasAccuracy() bool {
	return s.TargetsHit.Total() > 0
}

// Accuracy returns hits/shots as a percentage for one type. Zero shots
// yields 0, never a division by zero.
func (s Session) Accuracy(t ShotType) float64 {
	shots := s.Shots.Get(t)
	if shots == 0 {
		return 0
	}
	return float64(s.TargetsHit.Get(t)) / float64(shots) * 100
}

// AnyAccuracy averages per-type accuracy over the types that had shots
// in this session. Returns 0 when no shots were taken at all.
func (s Session) AnyAccuracy() float64 {
	var sum float64
	var n int
	for _, t := range Types() {
		if s.Shots.Get(t) > 0 {
			sum += s.Accuracy(t)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
