package stats

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/puck-challenge/backend/internal/shot"
)

var weekStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func day(d, h int) time.Time {
	return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC)
}

func TestAggregateSeasonAndWeek(t *testing.T) {
	raws := []shot.RawSession{
		// Last week, hits tracked.
		{ID: "a", Date: day(1, 10), TotalWrist: 20, WristTargetsHit: 10},
		// This week, hits tracked.
		{ID: "b", Date: day(3, 18), TotalWrist: 10, TotalSnap: 10, WristTargetsHit: 8, SnapTargetsHit: 5},
		// This week, no hit tracking: volume counts, accuracy does not.
		{ID: "c", Date: day(4, 18), TotalWrist: 50},
	}

	w := Aggregate(raws, weekStart, 0)

	if w.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d, want 2", w.TotalSessions)
	}
	if len(w.Sessions) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(w.Sessions))
	}
	if !w.Sessions[0].Date.After(w.Sessions[1].Date) {
		t.Error("Sessions not ordered newest first")
	}
	if w.TotalShots.Wrist != 80 || w.TotalShots.Snap != 10 {
		t.Errorf("TotalShots = %+v", w.TotalShots)
	}
	if w.SeasonTotalShots != 90 {
		t.Errorf("SeasonTotalShots = %d, want 90", w.SeasonTotalShots)
	}
	// Only sessions a and b have tracked hits: 20 shots / 10 hits and
	// 20 shots / 13 hits.
	if w.SeasonShotsWithAccuracy != 40 {
		t.Errorf("SeasonShotsWithAccuracy = %d, want 40", w.SeasonShotsWithAccuracy)
	}
	if w.SeasonTargetsHit != 23 {
		t.Errorf("SeasonTargetsHit = %d, want 23", w.SeasonTargetsHit)
	}
	if math.Abs(w.SeasonAccuracy-57.5) > 1e-9 {
		t.Errorf("SeasonAccuracy = %v, want 57.5", w.SeasonAccuracy)
	}
	// Wrist accuracy ignores session c's 50 untracked shots: 18/30.
	if math.Abs(w.Accuracy.Wrist-60) > 1e-9 {
		t.Errorf("Accuracy.Wrist = %v, want 60", w.Accuracy.Wrist)
	}
	if math.Abs(w.Accuracy.Snap-50) > 1e-9 {
		t.Errorf("Accuracy.Snap = %v, want 50", w.Accuracy.Snap)
	}
	if w.Accuracy.Slap != 0 || w.Accuracy.Backhand != 0 {
		t.Errorf("types without shots should report 0 accuracy: %+v", w.Accuracy)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	raws := []shot.RawSession{
		{ID: "a", Date: day(3, 9), TotalWrist: 10, WristTargetsHit: 5},
		{ID: "b", Date: day(4, 9), TotalSnap: 12, SnapTargetsHit: 6},
	}
	first := Aggregate(raws, weekStart, 0)
	second := Aggregate(raws, weekStart, 0)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation diverged:\n%+v\n%+v", first, second)
	}
}

func TestAggregateRecentCap(t *testing.T) {
	var raws []shot.RawSession
	for i := 0; i < 6; i++ {
		raws = append(raws, shot.RawSession{Date: day(2, 8+i), TotalWrist: 1})
	}
	w := Aggregate(raws, weekStart, 3)
	if w.TotalSessions != 6 {
		t.Errorf("TotalSessions = %d, want 6", w.TotalSessions)
	}
	if len(w.Sessions) != 3 {
		t.Errorf("len(Sessions) = %d, want capped 3", len(w.Sessions))
	}
	// The cap keeps the newest sessions.
	if w.Sessions[0].Date.Hour() != 13 {
		t.Errorf("newest session hour = %d, want 13", w.Sessions[0].Date.Hour())
	}
}

func TestAggregateEmpty(t *testing.T) {
	w := Aggregate(nil, weekStart, 0)
	if w.TotalSessions != 0 || w.SeasonAccuracy != 0 || len(w.Sessions) != 0 {
		t.Errorf("empty aggregate not zero-valued: %+v", w)
	}
}

func TestBuildProfile(t *testing.T) {
	w := Aggregate([]shot.RawSession{
		{Date: day(3, 9), TotalWrist: 10, TotalSnap: 20, WristTargetsHit: 3, SnapTargetsHit: 15},
		{Date: day(4, 9), TotalWrist: 10, TotalSnap: 20, WristTargetsHit: 5, SnapTargetsHit: 10},
	}, weekStart, 0)

	p := BuildProfile(w)

	// Wrist averages 40%, snap averages 62.5%; slap/backhand unknown.
	if p.WeakestAccuracy != shot.Wrist {
		t.Errorf("WeakestAccuracy = %s, want wrist", p.WeakestAccuracy)
	}
	if p.LaggingVolume != shot.Wrist {
		t.Errorf("LaggingVolume = %s, want wrist", p.LaggingVolume)
	}
	if math.Abs(p.AvgAccuracy.Wrist-40) > 1e-9 {
		t.Errorf("AvgAccuracy.Wrist = %v, want 40", p.AvgAccuracy.Wrist)
	}
	if math.Abs(p.AvgShots.Snap-20) > 1e-9 {
		t.Errorf("AvgShots.Snap = %v, want 20", p.AvgShots.Snap)
	}
}

func TestBuildProfileTieBreak(t *testing.T) {
	// Snap and backhand tie on accuracy; canonical order picks snap.
	w := Aggregate([]shot.RawSession{
		{Date: day(3, 9), TotalSnap: 10, TotalBackhand: 10, SnapTargetsHit: 5, BackhandTargetsHit: 5},
	}, weekStart, 0)
	p := BuildProfile(w)
	if p.WeakestAccuracy != shot.Snap {
		t.Errorf("tie-break WeakestAccuracy = %s, want snap", p.WeakestAccuracy)
	}
}

func TestBuildProfileNoData(t *testing.T) {
	p := BuildProfile(nil)
	if p.WeakestAccuracy != "" || p.LaggingVolume != "" {
		t.Errorf("profile without data should be unknown: %+v", p)
	}
	// Volume-only data yields a lagging type but no weakest accuracy.
	w := Aggregate([]shot.RawSession{{Date: day(3, 9), TotalSlap: 8}}, weekStart, 0)
	p = BuildProfile(w)
	if p.WeakestAccuracy != "" {
		t.Errorf("WeakestAccuracy without hit tracking = %s, want empty", p.WeakestAccuracy)
	}
	if p.LaggingVolume != shot.Slap {
		t.Errorf("LaggingVolume = %s, want slap", p.LaggingVolume)
	}
}
