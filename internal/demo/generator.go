// Package demo seeds the store with sample players and keeps feeding
// them practice sessions, so a local instance has live stats, challenge
// completions, and WebSocket traffic without a real mobile app.
package demo

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/puck-challenge/backend/internal/engine"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/store"
)

type player struct {
	user   store.User
	ticks  int     // ticks between sessions
	volume int     // shots per session, before jitter
	skill  float64 // probability a shot hits a target
	focus  []shot.ShotType
}

type Generator struct {
	store   store.Store
	engine  *engine.Engine
	rng     *rand.Rand
	players []*player
}

func NewGenerator(st store.Store, eng *engine.Engine) *Generator {
	return &Generator{
		store:  st,
		engine: eng,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed creates the demo roster, backfills a week of practice, and runs
// one forced assignment cycle so every player starts with challenges.
func (g *Generator) Seed() error {
	now := time.Now()
	g.players = []*player{
		{
			user:   store.User{ID: "demo-liam", DisplayName: "Liam", Age: 9, Timezone: "America/Toronto"},
			ticks:  2, volume: 25, skill: 0.30,
			focus: []shot.ShotType{shot.Wrist, shot.Backhand},
		},
		{
			user:   store.User{ID: "demo-maya", DisplayName: "Maya", Age: 13, Timezone: "America/Toronto"},
			ticks:  3, volume: 60, skill: 0.50,
			focus: []shot.ShotType{shot.Wrist, shot.Snap, shot.Backhand, shot.Slap},
		},
		{
			user: store.User{
				ID: "demo-alex", DisplayName: "Alex", Age: 17, Timezone: "America/Vancouver",
				ProUntil: now.AddDate(1, 0, 0),
			},
			ticks: 1, volume: 90, skill: 0.65,
			focus: []shot.ShotType{shot.Snap, shot.Slap},
		},
		{
			user:   store.User{ID: "demo-jordan", DisplayName: "Jordan", Age: 29, Timezone: "Europe/Stockholm"},
			ticks:  4, volume: 45, skill: 0.55,
			focus: []shot.ShotType{shot.Wrist, shot.Snap, shot.Slap},
		},
	}

	ids := make([]string, 0, len(g.players))
	for _, p := range g.players {
		p.user.LastSeen = now
		if err := g.store.PutUser(p.user); err != nil {
			return err
		}
		ids = append(ids, p.user.ID)

		// A week of backlog, one or two sessions per day.
		for day := 7; day >= 1; day-- {
			sessions := 1 + g.rng.Intn(2)
			for i := 0; i < sessions; i++ {
				date := now.AddDate(0, 0, -day).Add(time.Duration(g.rng.Intn(12)) * time.Hour)
				if err := g.store.PutSession(p.user.ID, p.user.CurrentIteration, g.session(p, date)); err != nil {
					return err
				}
			}
		}
		if res := g.engine.RecomputeStats(p.user.ID); !res.OK {
			log.Printf("demo: recompute %s: %s", p.user.ID, res.Message)
		}
	}

	for _, st := range g.engine.RunAssignmentCycle(context.Background(), ids, true) {
		if !st.OK {
			log.Printf("demo: assign %s: %s", st.UserID, st.Message)
		}
	}
	log.Printf("demo: seeded %d players", len(g.players))
	return nil
}

// Start keeps the demo roster practicing. Each tick a due player logs a
// new session, which flows through the normal recompute path and out to
// any connected WebSocket clients.
func (g *Generator) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		tick := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick++
				for i, p := range g.players {
					if (tick+i)%p.ticks != 0 {
						continue
					}
					now := time.Now()
					p.user.LastSeen = now
					if err := g.store.PutUser(p.user); err != nil {
						log.Printf("demo: put user %s: %v", p.user.ID, err)
						continue
					}
					if err := g.store.PutSession(p.user.ID, p.user.CurrentIteration, g.session(p, now)); err != nil {
						log.Printf("demo: put session %s: %v", p.user.ID, err)
						continue
					}
					if res := g.engine.RecomputeStats(p.user.ID); !res.OK {
						log.Printf("demo: recompute %s: %s", p.user.ID, res.Message)
					}
				}
			}
		}
	}()
}

// session fabricates one practice session for a player: their volume
// split over their focus types, hits drawn from their skill level.
func (g *Generator) session(p *player, date time.Time) shot.RawSession {
	duration := 10 + float64(g.rng.Intn(30))
	raw := shot.RawSession{
		ID:              uuid.NewString(),
		Date:            date,
		DurationMinutes: &duration,
	}

	total := p.volume + g.rng.Intn(p.volume/2+1)
	per := total / len(p.focus)
	for _, t := range p.focus {
		shots := per + g.rng.Intn(per/2+1)
		hits := 0
		for i := 0; i < shots; i++ {
			if g.rng.Float64() < p.skill {
				hits++
			}
		}
		switch t {
		case shot.Wrist:
			raw.TotalWrist, raw.WristTargetsHit = shots, hits
		case shot.Snap:
			raw.TotalSnap, raw.SnapTargetsHit = shots, hits
		case shot.Slap:
			raw.TotalSlap, raw.SlapTargetsHit = shots, hits
		case shot.Backhand:
			raw.TotalBackhand, raw.BackhandTargetsHit = shots, hits
		}
	}
	return raw
}
