package engine

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/store"
)

// Thursday noon UTC; the containing week starts Monday March 9.
var testNow = time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC)

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, ev := range l.events {
		out = append(out, ev.Type)
	}
	return out
}

func (l *eventLog) has(typ string) bool {
	for _, t := range l.types() {
		if t == typ {
			return true
		}
	}
	return false
}

func newTestEngine(st store.Store) (*Engine, *eventLog) {
	e := New(st, Options{
		WeekZone: time.UTC,
		Rand:     rand.New(rand.NewSource(1)),
		Now:      func() time.Time { return testNow },
	})
	log := &eventLog{}
	e.OnEvent(log.record)
	return e, log
}

func wristSession(id string, day, shots, hits int) shot.RawSession {
	return shot.RawSession{
		ID:              id,
		Date:            time.Date(2026, time.March, day, 10, 0, 0, 0, time.UTC),
		TotalWrist:      shots,
		WristTargetsHit: hits,
	}
}

func wristCountAchievement(userID string, goal int) achievement.Achievement {
	return achievement.Achievement{
		Template: achievement.Template{
			ID:         "wrist_goal",
			Style:      achievement.StyleQuantity,
			ShotType:   shot.Wrist,
			GoalType:   achievement.GoalCount,
			GoalValue:  goal,
			Difficulty: achievement.Easy,
		},
		AchievementID: "ach-1",
		UserID:        userID,
		DateAssigned:  shot.WeekStart(testNow, time.UTC),
		TimeFrame:     "week",
	}
}

func TestRecomputeStatsCompletesAndReverts(t *testing.T) {
	st := store.NewMemory()
	e, log := newTestEngine(st)

	if err := st.PutUser(store.User{ID: "u1", Age: 20, Timezone: "UTC", LastSeen: testNow}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddAchievement("u1", wristCountAchievement("u1", 10)); err != nil {
		t.Fatal(err)
	}
	if err := st.PutSession("u1", "", wristSession("s1", 11, 12, 6)); err != nil {
		t.Fatal(err)
	}

	if res := e.RecomputeStats("u1"); !res.OK {
		t.Fatalf("recompute failed: %s", res.Message)
	}

	achs, _ := st.ListAchievements("u1")
	if len(achs) != 1 || !achs[0].Completed {
		t.Fatalf("achievement not completed after 12 wrist shots: %+v", achs)
	}
	if achs[0].DateCompleted == nil || !achs[0].DateCompleted.Equal(testNow) {
		t.Errorf("DateCompleted = %v, want %v", achs[0].DateCompleted, testNow)
	}
	if !log.has(EventStatsUpdated) || !log.has(EventAchievementCompleted) {
		t.Errorf("events = %v, want stats_updated and achievement_completed", log.types())
	}

	// Deleting the session takes the completion back.
	if err := st.DeleteSession("u1", "", "s1"); err != nil {
		t.Fatal(err)
	}
	if res := e.RecomputeStats("u1"); !res.OK {
		t.Fatalf("second recompute failed: %s", res.Message)
	}
	achs, _ = st.ListAchievements("u1")
	if achs[0].Completed || achs[0].DateCompleted != nil {
		t.Errorf("achievement still completed after session delete: %+v", achs[0])
	}
	if !log.has(EventAchievementUncompleted) {
		t.Errorf("events = %v, want achievement_uncompleted", log.types())
	}
}

func TestRecomputeStatsUnknownUser(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)

	// Sessions can land before the profile exists; recompute must not
	// fail, it just runs with profile defaults.
	if err := st.PutSession("ghost", "", wristSession("s1", 11, 5, 2)); err != nil {
		t.Fatal(err)
	}
	if res := e.RecomputeStats("ghost"); !res.OK {
		t.Fatalf("recompute failed for unknown user: %s", res.Message)
	}
	w, err := st.GetWeeklyStats("ghost")
	if err != nil || w == nil {
		t.Fatalf("weekly stats not written: %v %v", w, err)
	}
	if w.TotalShots.Wrist != 5 {
		t.Errorf("wrist shots = %d, want 5", w.TotalShots.Wrist)
	}
}

func TestAssignmentCycleRollsTheWeek(t *testing.T) {
	st := store.NewMemory()
	e, log := newTestEngine(st)

	done := testNow.Add(-24 * time.Hour)
	old := wristCountAchievement("u1", 10)
	old.Completed = true
	old.DateCompleted = &done

	oldBonus := old
	oldBonus.AchievementID = "ach-2"
	oldBonus.ID = "fun_music_easy"
	oldBonus.Style = achievement.StyleFun
	oldBonus.IsBonus = true

	if err := st.PutUser(store.User{ID: "u1", Age: 20, Timezone: "UTC", LastSeen: testNow}); err != nil {
		t.Fatal(err)
	}
	st.AddAchievement("u1", old)
	st.AddAchievement("u1", oldBonus)
	lastSwap := testNow.Add(-2 * time.Hour)
	st.SetSwapMeta("u1", store.SwapMeta{SwapCount: 5, LastSwap: lastSwap})

	statuses := e.RunAssignmentCycle(context.Background(), []string{"u1"}, false)
	if len(statuses) != 1 || !statuses[0].OK {
		t.Fatalf("cycle statuses = %+v", statuses)
	}

	// Both completed challenges count toward the total; the streak
	// advances because every non-bonus one was done.
	h, _ := st.GetHistory("u1")
	if h.TotalAchievementsCompleted != 2 {
		t.Errorf("total completed = %d, want 2", h.TotalAchievementsCompleted)
	}
	if h.WeeklyAllCompletedStreak != 1 {
		t.Errorf("streak = %d, want 1", h.WeeklyAllCompletedStreak)
	}
	if got := len(st.Archived("u1")); got != 2 {
		t.Errorf("archived = %d, want 2", got)
	}

	meta, _ := st.GetSwapMeta("u1")
	if meta.SwapCount != 0 {
		t.Errorf("swap count = %d, want 0 after cycle", meta.SwapCount)
	}
	if !meta.LastSwap.Equal(lastSwap) {
		t.Errorf("last swap timestamp not preserved: %v", meta.LastSwap)
	}

	achs, _ := st.ListAchievements("u1")
	if len(achs) == 0 || len(achs) > 4 {
		t.Fatalf("assigned %d achievements, want 1..4", len(achs))
	}
	weekStart := shot.WeekStart(testNow, time.UTC)
	seen := make(map[string]bool)
	bonuses := 0
	for _, a := range achs {
		if a.AchievementID == "ach-1" || a.AchievementID == "ach-2" {
			t.Errorf("old achievement %s survived the cycle", a.AchievementID)
		}
		if !a.DateAssigned.Equal(weekStart) {
			t.Errorf("%s assigned at %v, want week start %v", a.ID, a.DateAssigned, weekStart)
		}
		if a.TimeFrame != "week" {
			t.Errorf("%s time frame = %q", a.ID, a.TimeFrame)
		}
		if a.ProLevel {
			t.Errorf("%s is pro-only but the user is not pro", a.ID)
		}
		key := a.ID + "|" + string(a.ShotType)
		if seen[key] {
			t.Errorf("duplicate challenge %s", key)
		}
		seen[key] = true
		if a.IsBonus {
			bonuses++
		}
	}
	if bonuses > 1 {
		t.Errorf("assigned %d bonus challenges, want at most 1", bonuses)
	}
	if !log.has(EventAchievementsAssigned) {
		t.Errorf("events = %v, want achievements_assigned", log.types())
	}
}

func TestAssignmentCycleStreakResets(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)

	st.PutUser(store.User{ID: "u1", Age: 20, LastSeen: testNow})
	st.SetHistory("u1", store.History{TotalAchievementsCompleted: 7, WeeklyAllCompletedStreak: 3})
	incomplete := wristCountAchievement("u1", 500)
	st.AddAchievement("u1", incomplete)

	if statuses := e.RunAssignmentCycle(context.Background(), []string{"u1"}, false); !statuses[0].OK {
		t.Fatalf("cycle failed: %+v", statuses)
	}

	h, _ := st.GetHistory("u1")
	if h.TotalAchievementsCompleted != 7 {
		t.Errorf("total = %d, want unchanged 7", h.TotalAchievementsCompleted)
	}
	if h.WeeklyAllCompletedStreak != 0 {
		t.Errorf("streak = %d, want reset to 0", h.WeeklyAllCompletedStreak)
	}
}

func TestAssignmentCycleUsersFailIndependently(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)
	st.PutUser(store.User{ID: "good", Age: 20, LastSeen: testNow})

	statuses := e.RunAssignmentCycle(context.Background(), []string{"missing", "good"}, false)
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	if statuses[0].OK {
		t.Error("unknown user should fail")
	}
	if !statuses[1].OK {
		t.Errorf("healthy user failed: %s", statuses[1].Message)
	}
	if achs, _ := st.ListAchievements("good"); len(achs) == 0 {
		t.Error("healthy user got no achievements")
	}
}

func TestAssignmentCycleActiveWindow(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)
	st.PutUser(store.User{ID: "active", Age: 20, LastSeen: testNow.Add(-24 * time.Hour)})
	st.PutUser(store.User{ID: "dormant", Age: 20, LastSeen: testNow.Add(-30 * 24 * time.Hour)})

	statuses := e.RunAssignmentCycle(context.Background(), nil, false)
	if len(statuses) != 1 || statuses[0].UserID != "active" {
		t.Fatalf("unforced cycle targeted %+v, want only the active user", statuses)
	}

	// Force widens the cycle to everyone.
	statuses = e.RunAssignmentCycle(context.Background(), nil, true)
	if len(statuses) != 2 {
		t.Fatalf("forced cycle targeted %d users, want 2", len(statuses))
	}
}

func TestSwapCooldownAfterThreeFreeSwaps(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)
	st.PutUser(store.User{ID: "u1", Age: 20, LastSeen: testNow})
	st.AddAchievement("u1", wristCountAchievement("u1", 10))

	id := "ach-1"
	for i := 1; i <= 3; i++ {
		out := e.Swap("u1", id)
		if !out.OK {
			t.Fatalf("swap %d rejected: %s", i, out.Message)
		}
		if out.NewAchievement == nil {
			t.Fatalf("swap %d returned no replacement", i)
		}
		if out.SwapCount != i {
			t.Errorf("swap %d count = %d", i, out.SwapCount)
		}
		if !out.NewAchievement.DateAssigned.Equal(testNow) {
			t.Errorf("replacement assigned at %v, want swap time %v", out.NewAchievement.DateAssigned, testNow)
		}
		id = out.NewAchievement.AchievementID
	}

	// The fourth swap inside the same minute hits the first cooldown.
	out := e.Swap("u1", id)
	if out.OK {
		t.Fatal("fourth immediate swap should be rejected")
	}
	if !strings.Contains(out.Message, "next swap available") {
		t.Errorf("message = %q", out.Message)
	}
	if want := testNow.Add(time.Minute); !out.NextAvailable.Equal(want) {
		t.Errorf("next available = %v, want %v", out.NextAvailable, want)
	}
	if achs, _ := st.ListAchievements("u1"); len(achs) != 1 {
		t.Errorf("rejected swap changed the assignment list: %d entries", len(achs))
	}
}

func TestSwapRejectsCompletedAndMissing(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)
	st.PutUser(store.User{ID: "u1", Age: 20, LastSeen: testNow})
	done := wristCountAchievement("u1", 10)
	done.Completed = true
	st.AddAchievement("u1", done)

	if out := e.Swap("u1", "ach-1"); out.OK || !strings.Contains(out.Message, "completed") {
		t.Errorf("swap of completed achievement: %+v", out.Result)
	}
	if out := e.Swap("u1", "nope"); out.OK || !strings.Contains(out.Message, "not found") {
		t.Errorf("swap of unknown achievement: %+v", out.Result)
	}
}

func TestSwapBonusForBonus(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)
	st.PutUser(store.User{ID: "u1", Age: 20, LastSeen: testNow})

	bonus := wristCountAchievement("u1", 10)
	bonus.ID = "fun_music_easy"
	bonus.Style = achievement.StyleFun
	bonus.ShotType = ""
	bonus.IsBonus = true
	st.AddAchievement("u1", bonus)

	out := e.Swap("u1", "ach-1")
	if !out.OK {
		t.Fatalf("swap rejected: %s", out.Message)
	}
	if !out.NewAchievement.IsBonus {
		t.Errorf("bonus challenge swapped for non-bonus %s", out.NewAchievement.ID)
	}
}

func TestSwapKeepsSingleBonus(t *testing.T) {
	st := store.NewMemory()
	e, _ := newTestEngine(st)
	st.PutUser(store.User{ID: "u1", Age: 20, LastSeen: testNow})

	st.AddAchievement("u1", wristCountAchievement("u1", 10))
	bonus := wristCountAchievement("u1", 1)
	bonus.AchievementID = "ach-2"
	bonus.ID = "fun_music_easy"
	bonus.Style = achievement.StyleFun
	bonus.ShotType = ""
	bonus.IsBonus = true
	st.AddAchievement("u1", bonus)

	// Swapping the regular challenge while a bonus remains must not
	// draw a second bonus.
	out := e.Swap("u1", "ach-1")
	if !out.OK {
		t.Fatalf("swap rejected: %s", out.Message)
	}
	if out.NewAchievement.IsBonus {
		t.Errorf("drew a second bonus challenge %s", out.NewAchievement.ID)
	}
}
