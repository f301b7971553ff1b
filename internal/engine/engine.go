// Package engine orchestrates the weekly challenge lifecycle: stats
// recomputation, achievement evaluation, the weekly assignment cycle,
// and midweek swaps.
package engine

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/store"
)

// Event types published to the event sink.
const (
	EventStatsUpdated           = "stats_updated"
	EventAchievementCompleted   = "achievement_completed"
	EventAchievementUncompleted = "achievement_uncompleted"
	EventAchievementsAssigned   = "achievements_assigned"
	EventAchievementSwapped     = "achievement_swapped"
)

// Event is pushed to the registered sink after a state change has been
// persisted.
type Event struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	Payload any    `json:"payload,omitempty"`
}

// Result reports one engine operation. Policy rejections (cooldowns,
// completed swaps) come back as OK=false with a message, not as errors.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// CycleStatus is the per-user outcome of an assignment cycle.
type CycleStatus struct {
	UserID  string `json:"userId"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Options configures an Engine. Zero values pick sane defaults.
type Options struct {
	// WeekZone anchors the Monday 00:00 week boundary.
	WeekZone *time.Location
	// RecentSessionCap bounds the weekly session list kept in stats.
	RecentSessionCap int
	// ActiveWindow is how recently a user must have been seen to get
	// challenges in an unforced cycle. Default 15 days.
	ActiveWindow time.Duration
	// Workers bounds cycle concurrency. Default 4.
	Workers int
	// Rand drives template selection; tests pass a seeded source.
	Rand *rand.Rand
	// Now overrides the clock for tests.
	Now func() time.Time
}

// Engine coordinates all challenge state for all users. All mutations
// for one user run under that user's mutex, so a recompute triggered by
// a session write can never interleave with a swap or the weekly cycle
// for the same player.
type Engine struct {
	store        store.Store
	catalog      []achievement.Template
	weekZone     *time.Location
	recentCap    int
	activeWindow time.Duration
	workers      int
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	onEvent func(Event)

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func New(st store.Store, opts Options) *Engine {
	if opts.WeekZone == nil {
		opts.WeekZone = time.UTC
	}
	if opts.ActiveWindow <= 0 {
		opts.ActiveWindow = 15 * 24 * time.Hour
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		store:        st,
		catalog:      achievement.Catalog(),
		weekZone:     opts.WeekZone,
		recentCap:    opts.RecentSessionCap,
		activeWindow: opts.ActiveWindow,
		workers:      opts.Workers,
		now:          opts.Now,
		rng:          opts.Rand,
		locks:        make(map[string]*sync.Mutex),
	}
}

// OnEvent registers the event sink. Must be called before the engine
// starts receiving traffic.
func (e *Engine) OnEvent(cb func(Event)) {
	e.onEvent = cb
}

func (e *Engine) publish(ev Event) {
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.lockMu.Lock()
	defer e.lockMu.Unlock()
	mu, ok := e.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[userID] = mu
	}
	return mu
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(n, swap)
}

func logErr(op, userID string, err error) {
	log.Printf("engine: %s failed for user %s: %v", op, userID, err)
}
