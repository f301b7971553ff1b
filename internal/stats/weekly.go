// Package stats computes a player's weekly training statistics and the
// skill profile that drives challenge personalization.
package stats

import (
	"sort"
	"time"

	"github.com/puck-challenge/backend/internal/shot"
)

// MaxRecentSessions caps how many current-week sessions the weekly
// document retains when no explicit cap is configured.
const MaxRecentSessions = 50

// ByType holds one float per shot type, used for accuracies and averages.
type ByType struct {
	Wrist    float64 `json:"wrist"`
	Snap     float64 `json:"snap"`
	Slap     float64 `json:"slap"`
	Backhand float64 `json:"backhand"`
}

func (b ByType) Get(t shot.ShotType) float64 {
	switch t {
	case shot.Wrist:
		return b.Wrist
	case shot.Snap:
		return b.Snap
	case shot.Slap:
		return b.Slap
	case shot.Backhand:
		return b.Backhand
	}
	return 0
}

func (b *ByType) set(t shot.ShotType, v float64) {
	switch t {
	case shot.Wrist:
		b.Wrist = v
	case shot.Snap:
		b.Snap = v
	case shot.Slap:
		b.Slap = v
	case shot.Backhand:
		b.Backhand = v
	}
}

// Weekly is the per-user stats document. Season totals cover the whole
// active iteration; Sessions holds only the current week, newest first.
//
// Sessions without any recorded target hits count toward shot volume but
// are excluded from every accuracy denominator, so untracked practice
// never drags a player's accuracy down.
type Weekly struct {
	WeekStart     time.Time   `json:"week_start"`
	TotalSessions int         `json:"total_sessions"`
	TotalShots    shot.Counts `json:"total_shots"`
	TargetsHit    shot.Counts `json:"targets_hit"`
	Accuracy      ByType      `json:"accuracy"`

	SeasonTotalShots        int     `json:"season_total_shots"`
	SeasonShotsWithAccuracy int     `json:"season_total_shots_with_accuracy"`
	SeasonTargetsHit        int     `json:"season_targets_hit"`
	SeasonAccuracy          float64 `json:"season_accuracy"`

	Sessions []shot.Session `json:"sessions"`
}

// Aggregate rebuilds the weekly document from scratch. It is pure:
// aggregating the same input twice produces the same document, which is
// what makes recompute-on-every-write safe.
//
// weekStart bounds the current-week session list; maxRecent caps its
// length (<=0 selects MaxRecentSessions).
func Aggregate(raws []shot.RawSession, weekStart time.Time, maxRecent int) *Weekly {
	if maxRecent <= 0 {
		maxRecent = MaxRecentSessions
	}

	sorted := make([]shot.RawSession, len(raws))
	copy(sorted, raws)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	w := &Weekly{WeekStart: weekStart}
	var eligibleShots shot.Counts

	for _, raw := range sorted {
		s := shot.Normalize(raw)

		for _, t := range shot.Types() {
			w.TotalShots.Add(t, s.Shots.Get(t))
		}
		w.SeasonTotalShots += raw.SeasonTotal()

		if s.HasAccuracy() {
			for _, t := range shot.Types() {
				w.TargetsHit.Add(t, s.TargetsHit.Get(t))
				eligibleShots.Add(t, s.Shots.Get(t))
			}
			w.SeasonShotsWithAccuracy += s.Shots.Total()
			w.SeasonTargetsHit += s.TargetsHit.Total()
		}

		if !s.Date.Before(weekStart) {
			w.TotalSessions++
			if len(w.Sessions) < maxRecent {
				w.Sessions = append(w.Sessions, s)
			}
		}
	}

	for _, t := range shot.Types() {
		if n := eligibleShots.Get(t); n > 0 {
			w.Accuracy.set(t, float64(w.TargetsHit.Get(t))/float64(n)*100)
		}
	}
	if w.SeasonShotsWithAccuracy > 0 {
		w.SeasonAccuracy = float64(w.SeasonTargetsHit) / float64(w.SeasonShotsWithAccuracy) * 100
	}

	return w
}
