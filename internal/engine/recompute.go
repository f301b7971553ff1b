package engine

import (
	"fmt"
	"time"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/metrics"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
	"github.com/puck-challenge/backend/internal/store"
)

// RecomputeStats rebuilds the user's weekly stats from their sessions
// and re-evaluates every current achievement against the fresh numbers.
// Completion flips both ways: a deleted session can take a challenge
// back to incomplete.
//
// Called after every session write. The aggregation is pure, so running
// it twice in a row is harmless.
func (e *Engine) RecomputeStats(userID string) Result {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
		metrics.Recomputes.Inc()
	}()

	user, err := e.store.GetUser(userID)
	if err == store.ErrNotFound {
		// Sessions can arrive before the profile document; compute
		// with defaults rather than dropping the write.
		user = store.User{ID: userID}
	} else if err != nil {
		logErr("load user", userID, err)
		return Result{Message: fmt.Sprintf("load user: %v", err)}
	}

	raws, err := e.store.GetSessions(userID, user.CurrentIteration)
	if err != nil {
		logErr("load sessions", userID, err)
		return Result{Message: fmt.Sprintf("load sessions: %v", err)}
	}

	weekStart := shot.WeekStart(e.now(), e.weekZone)
	weekly := stats.Aggregate(raws, weekStart, e.recentCap)
	if err := e.store.SetWeeklyStats(userID, weekly); err != nil {
		logErr("save stats", userID, err)
		return Result{Message: fmt.Sprintf("save stats: %v", err)}
	}

	if err := e.refreshAchievements(userID, user, weekly); err != nil {
		return Result{Message: err.Error()}
	}

	e.publish(Event{Type: EventStatsUpdated, UserID: userID, Payload: weekly})
	return Result{OK: true}
}

func (e *Engine) refreshAchievements(userID string, user store.User, weekly *stats.Weekly) error {
	achs, err := e.store.ListAchievements(userID)
	if err != nil {
		logErr("list achievements", userID, err)
		return fmt.Errorf("list achievements: %w", err)
	}

	loc := shot.LoadLocation(user.Timezone)
	for _, a := range achs {
		metrics.Evaluations.Inc()
		done := achievement.Evaluate(a, weekly, loc)
		switch {
		case done && !a.Completed:
			at := e.now()
			if err := e.store.SetAchievementCompleted(userID, a.AchievementID, true, &at); err != nil {
				logErr("mark complete", userID, err)
				continue
			}
			metrics.Completions.Inc()
			a.Completed = true
			a.DateCompleted = &at
			e.publish(Event{Type: EventAchievementCompleted, UserID: userID, Payload: a})
		case !done && a.Completed:
			if err := e.store.SetAchievementCompleted(userID, a.AchievementID, false, nil); err != nil {
				logErr("mark incomplete", userID, err)
				continue
			}
			a.Completed = false
			a.DateCompleted = nil
			e.publish(Event{Type: EventAchievementUncompleted, UserID: userID, Payload: a})
		}
	}
	return nil
}
