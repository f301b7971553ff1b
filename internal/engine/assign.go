package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/metrics"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
	"github.com/puck-challenge/backend/internal/store"
)

const maxWeeklyAchievements = 4

// RunAssignmentCycle rolls every targeted user into a fresh challenge
// week: history rollup, archive, wipe, swap-count reset, then selection
// and personalization of up to four new challenges.
//
// With no explicit userIDs the cycle targets users seen within the
// active window; force widens that to everyone. An explicit ID list is
// always processed as forced. Users fail independently; one bad profile
// never stops the batch.
func (e *Engine) RunAssignmentCycle(ctx context.Context, userIDs []string, force bool) []CycleStatus {
	now := e.now()
	if len(userIDs) == 0 {
		activeSince := now.Add(-e.activeWindow)
		if force {
			activeSince = time.Time{}
		}
		ids, err := e.store.ListEligibleUserIDs(activeSince)
		if err != nil {
			logErr("list eligible users", "-", err)
			return []CycleStatus{{OK: false, Message: fmt.Sprintf("list eligible users: %v", err)}}
		}
		userIDs = ids
	}

	weekStart := shot.WeekStart(now, e.weekZone)
	statuses := make([]CycleStatus, len(userIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)
	for i, id := range userIDs {
		if ctx.Err() != nil {
			statuses[i] = CycleStatus{UserID: id, Message: "canceled"}
			metrics.CycleUsers.WithLabelValues("failed").Inc()
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := e.assignUser(id, weekStart, now); err != nil {
				logErr("assign", id, err)
				statuses[i] = CycleStatus{UserID: id, Message: err.Error()}
				metrics.CycleUsers.WithLabelValues("failed").Inc()
				return
			}
			statuses[i] = CycleStatus{UserID: id, OK: true}
			metrics.CycleUsers.WithLabelValues("ok").Inc()
		}(i, id)
	}
	wg.Wait()
	return statuses
}

func (e *Engine) assignUser(userID string, weekStart, now time.Time) error {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := e.store.GetUser(userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	current, err := e.store.ListAchievements(userID)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}

	if err := e.rollupHistory(userID, current); err != nil {
		return err
	}

	// Archive what was earned, then clear the slate.
	for _, a := range current {
		if a.Completed {
			if err := e.store.ArchiveAchievement(userID, a, now); err != nil {
				return fmt.Errorf("archive achievement: %w", err)
			}
		}
	}
	for _, a := range current {
		if err := e.store.DeleteAchievement(userID, a.AchievementID); err != nil && err != store.ErrNotFound {
			return fmt.Errorf("delete achievement: %w", err)
		}
	}

	// Fresh week, fresh swap budget. The last-swap timestamp survives
	// so a swap right before rollover still backs the first cooldown.
	meta, err := e.store.GetSwapMeta(userID)
	if err != nil {
		return fmt.Errorf("load swap meta: %w", err)
	}
	meta.SwapCount = 0
	if err := e.store.SetSwapMeta(userID, meta); err != nil {
		return fmt.Errorf("reset swap meta: %w", err)
	}

	weekly, err := e.store.GetWeeklyStats(userID)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	prof := stats.BuildProfile(weekly)

	picked := e.selectTemplates(user, prof, weekly, now)
	assigned := make([]achievement.Achievement, 0, len(picked))
	for _, tmpl := range picked {
		a := achievement.Achievement{
			Template:      tmpl,
			AchievementID: uuid.NewString(),
			UserID:        userID,
			DateAssigned:  weekStart,
			TimeFrame:     "week",
		}
		if err := e.store.AddAchievement(userID, a); err != nil {
			return fmt.Errorf("add achievement: %w", err)
		}
		metrics.AchievementsAssigned.Inc()
		assigned = append(assigned, a)
	}

	e.publish(Event{Type: EventAchievementsAssigned, UserID: userID, Payload: assigned})
	return nil
}

// rollupHistory folds the finished week into the running totals. The
// streak only advances when every non-bonus challenge was completed and
// there was at least one; bonus challenges count toward the total but
// never gate the streak.
func (e *Engine) rollupHistory(userID string, current []achievement.Achievement) error {
	var completed, nonBonus, nonBonusDone int
	for _, a := range current {
		if a.Completed {
			completed++
		}
		if !a.IsBonus {
			nonBonus++
			if a.Completed {
				nonBonusDone++
			}
		}
	}

	h, err := e.store.GetHistory(userID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	h.TotalAchievementsCompleted += completed
	if nonBonus > 0 && nonBonusDone == nonBonus {
		h.WeeklyAllCompletedStreak++
	} else {
		h.WeeklyAllCompletedStreak = 0
	}
	if err := e.store.SetHistory(userID, h); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// selectTemplates draws up to four personalized challenges: one fun
// pick when available, then one per difficulty tier ascending, then
// whatever the shuffled pool still offers. A duplicate of the same
// template aimed at the same shot type is never assigned twice.
func (e *Engine) selectTemplates(user store.User, prof stats.SkillProfile, weekly *stats.Weekly, now time.Time) []achievement.Template {
	age := user.Age
	if age == 0 {
		age = 18
	}
	group := achievement.AgeGroupFor(age)
	isPro := user.IsPro(now)

	var eligible []achievement.Template
	for _, t := range e.catalog {
		if achievement.Eligible(t, group, isPro) {
			eligible = append(eligible, t)
		}
	}
	e.shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })

	var fun, pool []achievement.Template
	for _, t := range eligible {
		if t.Style == achievement.StyleFun {
			fun = append(fun, t)
		} else {
			pool = append(pool, t)
		}
	}

	var assigned []achievement.Template
	used := make(map[string]bool)
	usedDifficulty := make(map[achievement.Difficulty]bool)

	add := func(t achievement.Template) bool {
		p := achievement.Personalize(t, prof, weekly)
		key := p.ID + "|" + shotKey(p)
		if used[key] {
			return false
		}
		assigned = append(assigned, p)
		used[key] = true
		usedDifficulty[p.Difficulty] = true
		return true
	}

	if len(fun) > 0 {
		add(fun[e.intn(len(fun))])
	}

	for _, d := range achievement.Difficulties() {
		if len(assigned) >= maxWeeklyAchievements {
			break
		}
		if usedDifficulty[d] {
			continue
		}
		var candidates []achievement.Template
		for _, t := range pool {
			if t.Difficulty == d {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		add(candidates[e.intn(len(candidates))])
	}

	for _, t := range pool {
		if len(assigned) >= maxWeeklyAchievements {
			break
		}
		add(t)
	}
	return assigned
}

func shotKey(t achievement.Template) string {
	if t.ShotType == "" {
		return "any"
	}
	return string(t.ShotType)
}
