// Package store defines the persistence boundary for users, sessions,
// weekly stats, achievements, and the per-user scheduler metadata.
package store

import (
	"errors"
	"time"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
)

// ErrNotFound is returned when a keyed record does not exist. Lookups
// for stats, history, and swap metadata return zero values instead: an
// absent document there just means "nothing yet".
var ErrNotFound = errors.New("store: not found")

// User is the player profile the engine reads.
type User struct {
	ID               string    `json:"id"`
	DisplayName      string    `json:"display_name"`
	Age              int       `json:"age"`
	Timezone         string    `json:"timezone"`
	LastSeen         time.Time `json:"last_seen"`
	ProUntil         time.Time `json:"pro_until"`
	CurrentIteration string    `json:"current_iteration"`
}

// IsPro reports whether the pro entitlement is live at the given time.
func (u User) IsPro(now time.Time) bool {
	return now.Before(u.ProUntil)
}

// History is the per-user rollup the weekly cycle maintains.
type History struct {
	TotalAchievementsCompleted int `json:"totalAchievementsCompleted"`
	WeeklyAllCompletedStreak   int `json:"weeklyAllCompletedStreak"`
}

// SwapMeta throttles achievement swaps within a week.
type SwapMeta struct {
	SwapCount int       `json:"swapCount"`
	LastSwap  time.Time `json:"lastSwap"`
}

// Store is the document-store boundary. Implementations must be safe
// for concurrent use; the engine serializes per-user mutations above
// this layer.
type Store interface {
	GetUser(id string) (User, error)
	PutUser(u User) error
	// ListEligibleUserIDs returns users seen at or after activeSince.
	ListEligibleUserIDs(activeSince time.Time) ([]string, error)

	// Sessions are scoped to a user's active iteration (their current
	// season). GetSessions returns them newest first.
	GetSessions(userID, iterationID string) ([]shot.RawSession, error)
	PutSession(userID, iterationID string, s shot.RawSession) error
	DeleteSession(userID, iterationID, sessionID string) error

	// Weekly stats are overwritten whole on every recompute. A missing
	// document reads back as (nil, nil).
	GetWeeklyStats(userID string) (*stats.Weekly, error)
	SetWeeklyStats(userID string, w *stats.Weekly) error

	ListAchievements(userID string) ([]achievement.Achievement, error)
	AddAchievement(userID string, a achievement.Achievement) error
	DeleteAchievement(userID, achievementID string) error
	SetAchievementCompleted(userID, achievementID string, completed bool, at *time.Time) error
	ArchiveAchievement(userID string, a achievement.Achievement, archivedAt time.Time) error

	GetHistory(userID string) (History, error)
	SetHistory(userID string, h History) error
	GetSwapMeta(userID string) (SwapMeta, error)
	SetSwapMeta(userID string, m SwapMeta) error

	Ping() error
	Close() error
}
