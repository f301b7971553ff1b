// Package achievement holds the weekly challenge templates, the
// personalization engine that tailors them to a player's skill profile,
// and the evaluator that decides completion from weekly stats.
package achievement

import (
	"time"

	"github.com/puck-challenge/backend/internal/shot"
)

// Style groups challenges by what kind of effort they reward.
type Style string

const (
	StyleQuantity    Style = "quantity"
	StyleAccuracy    Style = "accuracy"
	StyleConsistency Style = "consistency"
	StyleProgress    Style = "progress"
	StyleRatio       Style = "ratio"
	StyleFun         Style = "fun"
)

// Difficulty tiers, ordered easiest to hardest.
type Difficulty string

const (
	Easy       Difficulty = "Easy"
	Medium     Difficulty = "Medium"
	Hard       Difficulty = "Hard"
	Hardest    Difficulty = "Hardest"
	Impossible Difficulty = "Impossible"
)

// Difficulties returns every tier in ascending order.
func Difficulties() [5]Difficulty {
	return [5]Difficulty{Easy, Medium, Hard, Hardest, Impossible}
}

// GoalType selects the evaluation sub-mode within a style.
type GoalType string

const (
	GoalCount           GoalType = "count"
	GoalCountPerSession GoalType = "count_per_session"
	GoalCountTime       GoalType = "count_time"
	GoalCountEvening    GoalType = "count_evening"

	GoalAccuracy        GoalType = "accuracy"
	GoalAccuracyMorning GoalType = "accuracy_morning"
	GoalAccuracyVariety GoalType = "accuracy_variety"

	GoalStreak          GoalType = "streak"
	GoalSessions        GoalType = "sessions"
	GoalEarlySessions   GoalType = "early_sessions"
	GoalDoubleSessions  GoalType = "double_sessions"
	GoalWeekendSessions GoalType = "weekend_sessions"
	GoalMorningSessions GoalType = "morning_sessions"

	GoalImprovement         GoalType = "improvement"
	GoalImprovementVariety  GoalType = "improvement_variety"
	GoalImprovementEvening  GoalType = "improvement_evening"
	GoalImprovementSessions GoalType = "improvement_sessions"
	GoalTargetHitsIncrease  GoalType = "target_hits_increase"

	GoalVariety    GoalType = "variety"
	GoalRatio      GoalType = "ratio"
	GoalRatioEqual GoalType = "ratio_equal"
)

// Template describes one challenge before personalization. ShotType may
// be a concrete type, "all", "any", empty, or a '+'-joined combination
// for ratio goals. Zero numeric fields mean "not set" and pick up
// defaults during evaluation.
type Template struct {
	ID             string        `json:"id"`
	Style          Style         `json:"style"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	ShotType       shot.ShotType `json:"shotType,omitempty"`
	SecondaryType  shot.ShotType `json:"secondaryType,omitempty"`
	GoalType       GoalType      `json:"goalType"`
	GoalValue      int           `json:"goalValue,omitempty"`
	SecondaryValue int           `json:"secondaryValue,omitempty"`
	TargetAccuracy float64       `json:"targetAccuracy,omitempty"`
	Improvement    float64       `json:"improvement,omitempty"`
	Sessions       int           `json:"sessions,omitempty"`
	TimeLimit      float64       `json:"timeLimit,omitempty"`
	IsStreak       bool          `json:"isStreak,omitempty"`
	Difficulty     Difficulty    `json:"difficulty"`
	ProLevel       bool          `json:"proLevel,omitempty"`
	IsBonus        bool          `json:"isBonus,omitempty"`
}

// Achievement is a personalized template assigned to one player for one
// week. Completed flips both ways: deleting a session can take a
// finished challenge back.
type Achievement struct {
	Template

	AchievementID string     `json:"achievementId"`
	UserID        string     `json:"userId"`
	Completed     bool       `json:"completed"`
	DateAssigned  time.Time  `json:"dateAssigned"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`
	TimeFrame     string     `json:"time_frame"`
}
