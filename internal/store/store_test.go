package store

import (
	"testing"
	"time"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
)

// Both implementations run the same behavioral suite.
func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	runStoreSuite(t, s)
}

func runStoreSuite(t *testing.T, s Store) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	t.Run("users", func(t *testing.T) {
		if _, err := s.GetUser("missing"); err != ErrNotFound {
			t.Errorf("GetUser(missing) err = %v, want ErrNotFound", err)
		}
		u := User{
			ID: "u1", DisplayName: "Sam", Age: 12, Timezone: "America/Toronto",
			LastSeen: now, ProUntil: now.Add(30 * 24 * time.Hour), CurrentIteration: "season-2026",
		}
		if err := s.PutUser(u); err != nil {
			t.Fatalf("PutUser: %v", err)
		}
		got, err := s.GetUser("u1")
		if err != nil {
			t.Fatalf("GetUser: %v", err)
		}
		if got.Age != 12 || got.Timezone != "America/Toronto" || !got.LastSeen.Equal(now) {
			t.Errorf("round-trip mismatch: %+v", got)
		}
		if !got.IsPro(now) {
			t.Error("IsPro before expiry = false")
		}
		if got.IsPro(now.Add(31 * 24 * time.Hour)) {
			t.Error("IsPro after expiry = true")
		}
	})

	t.Run("eligible users", func(t *testing.T) {
		stale := User{ID: "u-stale", LastSeen: now.Add(-20 * 24 * time.Hour)}
		if err := s.PutUser(stale); err != nil {
			t.Fatalf("PutUser: %v", err)
		}
		ids, err := s.ListEligibleUserIDs(now.Add(-15 * 24 * time.Hour))
		if err != nil {
			t.Fatalf("ListEligibleUserIDs: %v", err)
		}
		if len(ids) != 1 || ids[0] != "u1" {
			t.Errorf("ids = %v, want [u1]", ids)
		}
	})

	t.Run("sessions", func(t *testing.T) {
		a := shot.RawSession{ID: "s1", Date: now.Add(-time.Hour), TotalWrist: 10}
		b := shot.RawSession{ID: "s2", Date: now, TotalSnap: 5}
		for _, raw := range []shot.RawSession{a, b} {
			if err := s.PutSession("u1", "season-2026", raw); err != nil {
				t.Fatalf("PutSession: %v", err)
			}
		}
		got, err := s.GetSessions("u1", "season-2026")
		if err != nil {
			t.Fatalf("GetSessions: %v", err)
		}
		if len(got) != 2 || got[0].ID != "s2" {
			t.Errorf("sessions = %+v, want s2 first", got)
		}
		if err := s.DeleteSession("u1", "season-2026", "s1"); err != nil {
			t.Fatalf("DeleteSession: %v", err)
		}
		if err := s.DeleteSession("u1", "season-2026", "s1"); err != ErrNotFound {
			t.Errorf("double delete err = %v, want ErrNotFound", err)
		}
		// Other iterations stay isolated.
		other, _ := s.GetSessions("u1", "season-2025")
		if len(other) != 0 {
			t.Errorf("foreign iteration sessions = %+v", other)
		}
	})

	t.Run("weekly stats", func(t *testing.T) {
		w, err := s.GetWeeklyStats("u1")
		if err != nil || w != nil {
			t.Errorf("missing stats = (%v, %v), want (nil, nil)", w, err)
		}
		doc := &stats.Weekly{WeekStart: now, TotalSessions: 3, SeasonAccuracy: 61.5}
		if err := s.SetWeeklyStats("u1", doc); err != nil {
			t.Fatalf("SetWeeklyStats: %v", err)
		}
		got, err := s.GetWeeklyStats("u1")
		if err != nil {
			t.Fatalf("GetWeeklyStats: %v", err)
		}
		if got.TotalSessions != 3 || got.SeasonAccuracy != 61.5 {
			t.Errorf("stats round-trip mismatch: %+v", got)
		}
		// Full overwrite, no merging.
		if err := s.SetWeeklyStats("u1", &stats.Weekly{WeekStart: now}); err != nil {
			t.Fatalf("SetWeeklyStats: %v", err)
		}
		got, _ = s.GetWeeklyStats("u1")
		if got.TotalSessions != 0 {
			t.Errorf("overwrite kept old fields: %+v", got)
		}
	})

	t.Run("achievements", func(t *testing.T) {
		a := achievement.Achievement{
			Template:      achievement.Template{ID: "qty_wrist_easy", Style: achievement.StyleQuantity, GoalValue: 30},
			AchievementID: "a1", UserID: "u1", DateAssigned: now, TimeFrame: "week",
		}
		if err := s.AddAchievement("u1", a); err != nil {
			t.Fatalf("AddAchievement: %v", err)
		}
		done := now.Add(time.Hour)
		if err := s.SetAchievementCompleted("u1", "a1", true, &done); err != nil {
			t.Fatalf("SetAchievementCompleted: %v", err)
		}
		list, err := s.ListAchievements("u1")
		if err != nil {
			t.Fatalf("ListAchievements: %v", err)
		}
		if len(list) != 1 || !list[0].Completed || list[0].DateCompleted == nil {
			t.Errorf("completion not persisted: %+v", list)
		}
		if err := s.SetAchievementCompleted("u1", "a1", false, nil); err != nil {
			t.Fatalf("SetAchievementCompleted(false): %v", err)
		}
		list, _ = s.ListAchievements("u1")
		if list[0].Completed || list[0].DateCompleted != nil {
			t.Errorf("un-completion not persisted: %+v", list)
		}
		if err := s.SetAchievementCompleted("u1", "nope", true, nil); err != ErrNotFound {
			t.Errorf("missing achievement err = %v, want ErrNotFound", err)
		}
		if err := s.ArchiveAchievement("u1", list[0], now); err != nil {
			t.Fatalf("ArchiveAchievement: %v", err)
		}
		if err := s.DeleteAchievement("u1", "a1"); err != nil {
			t.Fatalf("DeleteAchievement: %v", err)
		}
		if err := s.DeleteAchievement("u1", "a1"); err != ErrNotFound {
			t.Errorf("double delete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("history and swap meta", func(t *testing.T) {
		h, err := s.GetHistory("u1")
		if err != nil || h != (History{}) {
			t.Errorf("missing history = (%+v, %v), want zero", h, err)
		}
		if err := s.SetHistory("u1", History{TotalAchievementsCompleted: 7, WeeklyAllCompletedStreak: 2}); err != nil {
			t.Fatalf("SetHistory: %v", err)
		}
		h, _ = s.GetHistory("u1")
		if h.TotalAchievementsCompleted != 7 || h.WeeklyAllCompletedStreak != 2 {
			t.Errorf("history round-trip mismatch: %+v", h)
		}

		meta, err := s.GetSwapMeta("u1")
		if err != nil || meta.SwapCount != 0 {
			t.Errorf("missing swap meta = (%+v, %v), want zero", meta, err)
		}
		if err := s.SetSwapMeta("u1", SwapMeta{SwapCount: 3, LastSwap: now}); err != nil {
			t.Fatalf("SetSwapMeta: %v", err)
		}
		meta, _ = s.GetSwapMeta("u1")
		if meta.SwapCount != 3 || !meta.LastSwap.Equal(now) {
			t.Errorf("swap meta round-trip mismatch: %+v", meta)
		}
	})
}
