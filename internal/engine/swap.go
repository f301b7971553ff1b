package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/metrics"
	"github.com/puck-challenge/backend/internal/stats"
)

// Three free swaps per week, then escalating cooldowns up to a day.
var swapDelays = []time.Duration{
	0, 0, 0,
	time.Minute,
	3 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	20 * time.Minute,
	24 * time.Hour,
}

// SwapOutcome carries the replacement challenge when a swap succeeds.
type SwapOutcome struct {
	Result
	NewAchievement *achievement.Achievement `json:"newAchievement,omitempty"`
	SwapCount      int                      `json:"swapCount"`
	NextAvailable  time.Time                `json:"nextAvailable"`
}

// Swap replaces one incomplete achievement with a freshly drawn one.
// Bonus challenges swap only for bonus challenges; a non-bonus swap
// never introduces a second bonus. The replacement is assigned as of
// now, so practice logged before the swap cannot complete it.
func (e *Engine) Swap(userID, achievementID string) SwapOutcome {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	now := e.now()

	meta, err := e.store.GetSwapMeta(userID)
	if err != nil {
		logErr("load swap meta", userID, err)
		return swapFail(fmt.Sprintf("load swap meta: %v", err))
	}
	delay := swapDelays[min(meta.SwapCount, len(swapDelays)-1)]
	if !meta.LastSwap.IsZero() {
		next := meta.LastSwap.Add(delay)
		if now.Before(next) {
			metrics.Swaps.WithLabelValues("rejected").Inc()
			return SwapOutcome{
				Result:        Result{Message: fmt.Sprintf("next swap available at %s", next.Format(time.RFC3339))},
				SwapCount:     meta.SwapCount,
				NextAvailable: next,
			}
		}
	}

	current, err := e.store.ListAchievements(userID)
	if err != nil {
		logErr("list achievements", userID, err)
		return swapFail(fmt.Sprintf("list achievements: %v", err))
	}
	var target *achievement.Achievement
	for i := range current {
		if current[i].AchievementID == achievementID {
			target = &current[i]
			break
		}
	}
	if target == nil {
		metrics.Swaps.WithLabelValues("rejected").Inc()
		return swapFail("achievement not found")
	}
	if target.Completed {
		metrics.Swaps.WithLabelValues("rejected").Inc()
		return swapFail("cannot swap a completed achievement")
	}

	// Bonus state and exclusions come from what remains after removal.
	var hasBonus bool
	assignedIDs := make(map[string]bool)
	for _, a := range current {
		if a.AchievementID == achievementID {
			continue
		}
		assignedIDs[a.ID] = true
		if a.IsBonus {
			hasBonus = true
		}
	}

	replacement, ok := e.drawReplacement(userID, target.IsBonus, hasBonus, assignedIDs, now)
	if !ok {
		metrics.Swaps.WithLabelValues("rejected").Inc()
		return swapFail("no eligible achievements to assign")
	}

	if err := e.store.DeleteAchievement(userID, achievementID); err != nil {
		logErr("delete achievement", userID, err)
		return swapFail(fmt.Sprintf("delete achievement: %v", err))
	}
	if err := e.store.AddAchievement(userID, replacement); err != nil {
		logErr("add achievement", userID, err)
		return swapFail(fmt.Sprintf("add achievement: %v", err))
	}

	meta.SwapCount++
	meta.LastSwap = now
	if err := e.store.SetSwapMeta(userID, meta); err != nil {
		logErr("save swap meta", userID, err)
		return swapFail(fmt.Sprintf("save swap meta: %v", err))
	}

	metrics.Swaps.WithLabelValues("ok").Inc()
	metrics.AchievementsAssigned.Inc()
	e.publish(Event{Type: EventAchievementSwapped, UserID: userID, Payload: map[string]any{
		"removed": target,
		"added":   replacement,
	}})

	nextDelay := swapDelays[min(meta.SwapCount, len(swapDelays)-1)]
	return SwapOutcome{
		Result:         Result{OK: true},
		NewAchievement: &replacement,
		SwapCount:      meta.SwapCount,
		NextAvailable:  now.Add(nextDelay),
	}
}

func (e *Engine) drawReplacement(userID string, bonusSwap, hasBonus bool, assignedIDs map[string]bool, now time.Time) (achievement.Achievement, bool) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		logErr("load user", userID, err)
		return achievement.Achievement{}, false
	}
	weekly, err := e.store.GetWeeklyStats(userID)
	if err != nil {
		logErr("load stats", userID, err)
		return achievement.Achievement{}, false
	}
	prof := stats.BuildProfile(weekly)

	age := user.Age
	if age == 0 {
		age = 18
	}
	group := achievement.AgeGroupFor(age)
	isPro := user.IsPro(now)

	var pool []achievement.Template
	for _, t := range e.catalog {
		if !achievement.Eligible(t, group, isPro) {
			continue
		}
		if assignedIDs[t.ID] {
			continue
		}
		if bonusSwap {
			if !t.IsBonus {
				continue
			}
		} else if hasBonus && t.IsBonus {
			continue
		}
		pool = append(pool, t)
	}
	if len(pool) == 0 {
		return achievement.Achievement{}, false
	}

	chosen := achievement.Personalize(pool[e.intn(len(pool))], prof, weekly)
	return achievement.Achievement{
		Template:      chosen,
		AchievementID: uuid.NewString(),
		UserID:        userID,
		DateAssigned:  now,
		TimeFrame:     "week",
	}, true
}

func swapFail(msg string) SwapOutcome {
	return SwapOutcome{Result: Result{Message: msg}}
}
