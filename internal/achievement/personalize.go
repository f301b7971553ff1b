package achievement

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
)

// Personalize tailors a template to one player: accuracy and progress
// challenges retarget to the weakest shot type, quantity challenges to
// the most neglected one, and numeric goals shift toward what the
// player's recent sessions show they can reach. Descriptions are
// regenerated so the text always matches the substituted values. The
// function is pure; it never reads or writes anything but its inputs.
func Personalize(t Template, prof stats.SkillProfile, w *stats.Weekly) Template {
	switch t.Style {
	case StyleAccuracy:
		personalizeAccuracy(&t, prof)
	case StyleQuantity:
		personalizeQuantity(&t, prof)
	case StyleRatio:
		personalizeRatio(&t)
	case StyleProgress:
		personalizeProgress(&t, prof)
	case StyleConsistency:
		personalizeConsistency(&t, prof, w)
	}
	// Fun and social templates keep their hand-written text.
	return t
}

func personalizeAccuracy(t *Template, prof stats.SkillProfile) {
	if t.ShotType == "" || t.TargetAccuracy == 0 {
		return
	}
	if shot.Trackable(t.ShotType) && prof.WeakestAccuracy != "" && t.ShotType != prof.WeakestAccuracy {
		t.ShotType = prof.WeakestAccuracy
		t.Title = capitalize(string(prof.WeakestAccuracy)) + " Accuracy Focus"
	}

	// Nudge the target just above the player's recent average, rounded
	// to an even number, floored at 25 and capped at 100. The template
	// default acts as a ceiling on the way down and a floor on the way
	// up.
	avg := prof.AvgAccuracy.Get(t.ShotType)
	bump := 5.0
	if t.Sessions > 1 {
		bump = 2.5
	}
	def := t.TargetAccuracy
	raw := avg + bump
	rounded := math.Round(raw/2) * 2
	if raw < def {
		t.TargetAccuracy = math.Max(25, math.Min(rounded, def))
	} else {
		t.TargetAccuracy = math.Min(math.Max(def, rounded), 100)
	}

	var sessionPhrase string
	if t.Sessions > 0 {
		word := "session"
		if t.Sessions > 1 {
			word = "sessions"
		}
		if t.IsStreak {
			sessionPhrase = fmt.Sprintf(" in any %d consecutive %s", t.Sessions, word)
		} else {
			sessionPhrase = fmt.Sprintf(" in any %d %s", t.Sessions, word)
		}
	}
	if t.ShotType == shot.Any {
		t.Description = fmt.Sprintf("Achieve %s%% accuracy%s.", fmtNum(t.TargetAccuracy), sessionPhrase)
	} else {
		t.Description = fmt.Sprintf("Achieve %s%% accuracy on %s%s.", fmtNum(t.TargetAccuracy), pluralLabel(t.ShotType), sessionPhrase)
	}
}

func personalizeQuantity(t *Template, prof stats.SkillProfile) {
	if t.GoalValue == 0 {
		return
	}
	if shot.Trackable(t.ShotType) && prof.LaggingVolume != "" && t.ShotType != prof.LaggingVolume {
		t.ShotType = prof.LaggingVolume
		t.Title = capitalize(string(prof.LaggingVolume)) + " Shot Challenge"
	}

	switch {
	case t.GoalType == GoalCountPerSession:
		word := "session"
		if t.Sessions > 1 {
			word = "sessions"
		}
		t.Description = fmt.Sprintf("Take at least %d %s for any %d %s in a row.", t.GoalValue, pluralLabel(t.ShotType), t.Sessions, word)
	case t.GoalType == GoalCountEvening:
		t.Description = fmt.Sprintf("Take %d %s after 7pm in a single session.", t.GoalValue, pluralLabel(t.ShotType))
	case t.GoalType == GoalCountTime:
		limit := t.TimeLimit
		if limit == 0 {
			limit = 10
		}
		word := "minute"
		if limit > 1 {
			word = "minutes"
		}
		t.Description = fmt.Sprintf("Take %d %s in under %s %s in a single session.", t.GoalValue, pluralLabel(t.ShotType), fmtNum(limit), word)
	case t.ShotType == shot.All:
		t.Description = fmt.Sprintf("Take at least %d of each shot type (wrist, snap, backhand, slap) this week.", t.GoalValue)
	case t.ShotType == shot.Any:
		t.Description = fmt.Sprintf("Take %d shots (any type) this week.", t.GoalValue)
	default:
		t.Description = fmt.Sprintf("Take %d %s this week.", t.GoalValue, pluralLabel(t.ShotType))
	}
}

func personalizeRatio(t *Template) {
	if t.GoalValue == 0 || t.SecondaryValue == 0 {
		return
	}
	t.Description = fmt.Sprintf("Take %d %s for every %d %s.",
		t.GoalValue, countLabel(t.ShotType, t.GoalValue),
		t.SecondaryValue, countLabel(t.SecondaryType, t.SecondaryValue))
}

func personalizeProgress(t *Template, prof stats.SkillProfile) {
	if t.ShotType == "" || t.Improvement == 0 {
		return
	}
	if shot.Trackable(t.ShotType) && prof.WeakestAccuracy != "" && t.ShotType != prof.WeakestAccuracy {
		t.ShotType = prof.WeakestAccuracy
		t.Title = capitalize(string(prof.WeakestAccuracy)) + " Progress"
	}

	// Struggling players get a gentler target, strong ones a small but
	// real one.
	avg := prof.AvgAccuracy.Get(t.ShotType)
	switch {
	case avg > 0 && avg < 40:
		t.Improvement = math.Max(2, math.Round((40-avg)/4))
	case avg >= 40 && avg < 60:
		t.Improvement = math.Max(t.Improvement, 3)
	case avg >= 60:
		t.Improvement = math.Max(t.Improvement, 2)
	}

	switch t.GoalType {
	case GoalImprovementVariety:
		t.Description = fmt.Sprintf("Improve your accuracy by at least %s%% on all shot types.", fmtNum(t.Improvement))
	case GoalTargetHitsIncrease:
		t.Description = fmt.Sprintf("Hit %s targets.", fmtNum(t.Improvement))
	case GoalImprovementSessions:
		t.Description = fmt.Sprintf("Improve your accuracy in at least %d different sessions.", t.Sessions)
	case GoalImprovementEvening:
		t.Description = fmt.Sprintf("Improve your overall accuracy by %s%%.", fmtNum(t.Improvement))
	default:
		t.Description = fmt.Sprintf("Improve your %s accuracy by %s%%. Progress counts, even if it takes a few tries!", t.ShotType, fmtNum(t.Improvement))
	}
}

func personalizeConsistency(t *Template, prof stats.SkillProfile, w *stats.Weekly) {
	if t.GoalType == "" || t.GoalValue == 0 {
		return
	}
	if shot.Trackable(t.ShotType) && prof.LaggingVolume != "" && t.ShotType != prof.LaggingVolume {
		t.ShotType = prof.LaggingVolume
		t.Title = capitalize(string(prof.LaggingVolume)) + " Consistency"
	}

	var weekSessions int
	if w != nil {
		weekSessions = len(w.Sessions)
	}

	switch t.GoalType {
	case GoalStreak:
		// Active players never get a streak goal below what they
		// already sustain.
		if weekSessions >= 5 {
			t.GoalValue = max(t.GoalValue, 5)
		} else if weekSessions >= 3 {
			t.GoalValue = max(t.GoalValue, 3)
		}
		t.Description = fmt.Sprintf("Complete a %d day shooting streak.", t.GoalValue)
	case GoalSessions:
		if weekSessions > 0 {
			t.GoalValue = max(t.GoalValue, int(math.Ceil(float64(weekSessions)*1.2)))
		}
		t.Description = fmt.Sprintf("Complete %d shooting sessions this week.", t.GoalValue)
	case GoalEarlySessions:
		t.Description = fmt.Sprintf("Complete a shooting session before 7am %d %s.", t.GoalValue, times(t.GoalValue))
	case GoalDoubleSessions:
		t.Description = fmt.Sprintf("Complete two shooting sessions in one day, %d %s.", t.GoalValue, times(t.GoalValue))
	case GoalWeekendSessions:
		t.Description = "Complete a session on both Saturday and Sunday."
	case GoalMorningSessions:
		t.Description = fmt.Sprintf("Complete %d shooting sessions before 10am.", t.GoalValue)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func times(n int) string {
	if n == 1 {
		return "time"
	}
	return "times"
}

// pluralLabel renders a shot selector for "take N <label>" phrasing.
func pluralLabel(t shot.ShotType) string {
	switch t {
	case shot.Backhand:
		return "backhands"
	case shot.Wrist:
		return "wrist shots"
	case shot.Snap:
		return "snap shots"
	case shot.Slap:
		return "slap shots"
	case shot.All:
		return "all shot types"
	case shot.Any:
		return "shots"
	}
	return string(t)
}

func countLabel(t shot.ShotType, count int) string {
	singular := map[shot.ShotType]string{
		shot.Backhand: "backhand",
		shot.Wrist:    "wrist shot",
		shot.Snap:     "snap shot",
		shot.Slap:     "slap shot",
	}
	if s, ok := singular[t]; ok {
		if count == 1 {
			return s
		}
		return s + "s"
	}
	switch t {
	case shot.All:
		return "all shot types"
	case shot.Any:
		if count == 1 {
			return "shot"
		}
		return "shots"
	}
	if count == 1 {
		return string(t)
	}
	return string(t) + "s"
}
