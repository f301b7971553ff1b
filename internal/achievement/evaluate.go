package achievement

import (
	"strings"
	"time"

	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
)

// Evaluate decides whether a challenge is complete given the current
// weekly stats. It is pure and judges all wall-clock rules (evenings,
// mornings, weekends, day streaks) on the user's local clock in loc.
//
// Only sessions at or after the challenge's assignment moment count, so
// a challenge swapped in midweek cannot be completed by earlier
// practice. Fun and social challenges are completed manually in the app
// and always evaluate false here.
func Evaluate(a Achievement, w *stats.Weekly, loc *time.Location) bool {
	if w == nil {
		w = &stats.Weekly{}
	}

	shotType := a.ShotType
	if shotType == "" {
		shotType = shot.Any
	}
	goal := defaultInt(a.GoalValue, 1)
	secondary := defaultInt(a.SecondaryValue, 1)
	required := defaultInt(a.Sessions, 1)
	target := defaultFloat(a.TargetAccuracy, 100)
	improvement := defaultFloat(a.Improvement, 1)

	cutoff := a.DateAssigned
	if cutoff.IsZero() {
		cutoff = w.WeekStart
	}
	relevant := windowSessions(w.Sessions, cutoff, loc)

	switch a.Style {
	case StyleQuantity:
		return evalQuantity(a, relevant, shotType, goal, required, loc)
	case StyleAccuracy:
		return evalAccuracy(a, relevant, shotType, target, required, loc)
	case StyleConsistency:
		return evalConsistency(a, relevant, goal, loc)
	case StyleProgress:
		return evalProgress(a, w, relevant, shotType, improvement, required, loc)
	case StyleRatio:
		return evalRatio(a, relevant, shotType, goal, secondary)
	}
	return false
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func defaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func windowSessions(sessions []shot.Session, cutoff time.Time, loc *time.Location) []shot.Session {
	if cutoff.IsZero() {
		return sessions
	}
	cut := shot.LocalClock(cutoff, loc)
	var out []shot.Session
	for _, s := range sessions {
		if !shot.LocalClock(s.Date, loc).Before(cut) {
			out = append(out, s)
		}
	}
	return out
}

// typeCount resolves a shot selector against one session: "any" sums
// every type, '+'-joined selectors sum their parts.
func typeCount(s shot.Session, sel shot.ShotType) int {
	if sel == shot.Any {
		return s.Shots.Total()
	}
	if strings.Contains(string(sel), "+") {
		var sum int
		for _, part := range strings.Split(string(sel), "+") {
			sum += s.Shots.Get(shot.ShotType(part))
		}
		return sum
	}
	return s.Shots.Get(sel)
}

func sessionAccuracy(s shot.Session, sel shot.ShotType) float64 {
	if sel == shot.Any {
		return s.AnyAccuracy()
	}
	return s.Accuracy(sel)
}

func evalQuantity(a Achievement, relevant []shot.Session, shotType shot.ShotType, goal, required int, loc *time.Location) bool {
	switch a.GoalType {
	case GoalCountPerSession:
		// Goal met in N consecutive sessions; a miss resets the run.
		streak := 0
		for _, s := range relevant {
			if s.Shots.Get(shotType) >= goal {
				streak++
				if streak >= required {
					return true
				}
			} else {
				streak = 0
			}
		}
		return false

	case GoalCountEvening:
		for _, s := range relevant {
			if shot.LocalClock(s.Date, loc).Hour() >= 19 && typeCount(s, shotType) >= goal {
				return true
			}
		}
		return false

	case GoalCountTime:
		limit := defaultFloat(a.TimeLimit, 10)
		for _, s := range relevant {
			if s.Duration >= 0 && s.Duration <= limit && s.Shots.Total() >= goal {
				return true
			}
		}
		return false

	case GoalVariety:
		// Every type in one session. Lives under quantity because the
		// catalog files variety_master there.
		return anySessionAllTypes(relevant, goal)
	}

	switch shotType {
	case shot.All:
		var totals shot.Counts
		for _, s := range relevant {
			for _, t := range shot.Types() {
				totals.Add(t, s.Shots.Get(t))
			}
		}
		for _, t := range shot.Types() {
			if totals.Get(t) < goal {
				return false
			}
		}
		return true
	case shot.Any:
		var sum int
		for _, s := range relevant {
			sum += s.Shots.Total()
		}
		return sum >= goal
	}

	var count int
	for _, s := range relevant {
		count += s.Shots.Get(shotType)
	}
	return count >= goal
}

func evalAccuracy(a Achievement, relevant []shot.Session, shotType shot.ShotType, target float64, required int, loc *time.Location) bool {
	switch a.GoalType {
	case GoalAccuracyVariety:
		for _, s := range relevant {
			met := true
			for _, t := range shot.Types() {
				if s.Shots.Get(t) == 0 || s.Accuracy(t) < target {
					met = false
					break
				}
			}
			if met {
				return true
			}
		}
		return false

	case GoalAccuracyMorning:
		for _, s := range relevant {
			if shot.LocalClock(s.Date, loc).Hour() < 10 && sessionAccuracy(s, shotType) >= target {
				return true
			}
		}
		return false
	}

	hasShots := func(s shot.Session) bool {
		if shotType == shot.Any {
			return s.Shots.Total() > 0
		}
		return s.Shots.Get(shotType) > 0
	}

	if a.IsStreak && required > 1 {
		// Any run of N consecutive qualifying sessions.
		for i := 0; i+required <= len(relevant); i++ {
			met := true
			for j := i; j < i+required; j++ {
				if !hasShots(relevant[j]) || sessionAccuracy(relevant[j], shotType) < target {
					met = false
					break
				}
			}
			if met {
				return true
			}
		}
		return false
	}

	if required > 1 {
		var met int
		for _, s := range relevant {
			if hasShots(s) && sessionAccuracy(s, shotType) >= target {
				met++
				if met >= required {
					return true
				}
			}
		}
		return false
	}

	for _, s := range relevant {
		if hasShots(s) && sessionAccuracy(s, shotType) >= target {
			return true
		}
	}
	return false
}

func evalConsistency(a Achievement, relevant []shot.Session, goal int, loc *time.Location) bool {
	switch a.GoalType {
	case GoalWeekendSessions:
		var sat, sun bool
		for _, s := range relevant {
			switch shot.LocalClock(s.Date, loc).Weekday() {
			case time.Saturday:
				sat = true
			case time.Sunday:
				sun = true
			}
		}
		return sat && sun

	case GoalStreak:
		return longestDayStreak(relevant, loc) >= goal

	case GoalEarlySessions:
		return countByHour(relevant, loc, 7) >= goal

	case GoalMorningSessions:
		return countByHour(relevant, loc, 10) >= goal

	case GoalDoubleSessions:
		perDay := make(map[time.Time]int)
		for _, s := range relevant {
			perDay[localDay(s.Date, loc)]++
		}
		var doubles int
		for _, n := range perDay {
			if n >= 2 {
				doubles++
			}
		}
		return doubles >= goal
	}

	// sessions and any unknown sub-mode: total session count.
	return len(relevant) >= goal
}

func evalProgress(a Achievement, w *stats.Weekly, relevant []shot.Session, shotType shot.ShotType, improvement float64, required int, loc *time.Location) bool {
	switch a.GoalType {
	case GoalImprovementVariety:
		for _, t := range shot.Types() {
			if w.Accuracy.Get(t) < improvement {
				return false
			}
		}
		return true

	case GoalImprovementEvening:
		// Every evening session with hit tracking must hold the bar,
		// and there has to be at least one.
		var total int
		for _, s := range relevant {
			if shot.LocalClock(s.Date, loc).Hour() >= 19 && s.HasAccuracy() {
				total++
				if sessionAccuracy(s, shotType) < improvement {
					return false
				}
			}
		}
		return total > 0

	case GoalTargetHitsIncrease:
		return w.SeasonTargetsHit >= int(improvement)

	case GoalImprovementSessions:
		var met int
		for _, s := range relevant {
			if sessionAccuracy(s, shotType) >= improvement {
				met++
			}
		}
		return met >= required
	}

	// improvement and any unknown sub-mode: overall season accuracy.
	return w.SeasonAccuracy >= improvement
}

func evalRatio(a Achievement, relevant []shot.Session, shotType shot.ShotType, goal, secondary int) bool {
	if a.GoalType == GoalVariety {
		return anySessionAllTypes(relevant, goal)
	}

	var primaryCount, secondaryCount int
	for _, s := range relevant {
		primaryCount += typeCount(s, shotType)
		secondaryCount += typeCount(s, a.SecondaryType)
	}

	if a.GoalType == GoalRatioEqual {
		return primaryCount == secondaryCount && primaryCount > 0
	}
	if primaryCount == 0 || secondaryCount == 0 {
		return false
	}
	return float64(primaryCount)/float64(secondaryCount) >= float64(goal)/float64(secondary)
}

func anySessionAllTypes(relevant []shot.Session, goal int) bool {
	for _, s := range relevant {
		met := true
		for _, t := range shot.Types() {
			if s.Shots.Get(t) < goal {
				met = false
				break
			}
		}
		if met {
			return true
		}
	}
	return false
}

func countByHour(relevant []shot.Session, loc *time.Location, before int) int {
	var n int
	for _, s := range relevant {
		if shot.LocalClock(s.Date, loc).Hour() < before {
			n++
		}
	}
	return n
}

func localDay(t time.Time, loc *time.Location) time.Time {
	lc := shot.LocalClock(t, loc)
	return time.Date(lc.Year(), lc.Month(), lc.Day(), 0, 0, 0, 0, time.UTC)
}

// longestDayStreak counts the longest run of consecutive distinct local
// calendar days with at least one session.
func longestDayStreak(relevant []shot.Session, loc *time.Location) int {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, s := range relevant {
		d := localDay(s.Date, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0
	}
	// Sort ascending; the list is small.
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j].Before(days[j-1]); j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}
