package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"github.com/puck-challenge/backend/internal/api"
	"github.com/puck-challenge/backend/internal/config"
	"github.com/puck-challenge/backend/internal/demo"
	"github.com/puck-challenge/backend/internal/engine"
	"github.com/puck-challenge/backend/internal/store"
	"github.com/puck-challenge/backend/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	demoMode := flag.Bool("demo", false, "Seed demo players and keep generating sessions (in-memory store)")
	cycleNow := flag.Bool("cycle-now", false, "Run a forced assignment cycle on startup")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	weekZone, err := time.LoadLocation(cfg.Engine.WeekTimezone)
	if err != nil {
		log.Fatalf("Invalid week timezone %q: %v", cfg.Engine.WeekTimezone, err)
	}

	var st store.Store
	if *demoMode || cfg.Store.Path == "" {
		log.Println("Using in-memory store")
		st = store.NewMemory()
	} else {
		s, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to open store at %s: %v", cfg.Store.Path, err)
		}
		log.Printf("Using SQLite store at %s", cfg.Store.Path)
		st = s
	}
	defer st.Close()

	eng := engine.New(st, engine.Options{
		WeekZone:         weekZone,
		RecentSessionCap: cfg.Engine.RecentSessionCap,
		ActiveWindow:     cfg.Engine.ActiveWindow(),
		Workers:          cfg.Engine.CycleWorkers,
	})

	hub := ws.NewHub(cfg.Server.MaxWSConnections)
	eng.OnEvent(func(ev engine.Event) {
		hub.Broadcast(ws.Message{Type: ev.Type, UserID: ev.UserID, Payload: ev.Payload})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *demoMode {
		log.Println("Starting in demo mode")
		gen := demo.NewGenerator(st, eng)
		if err := gen.Seed(); err != nil {
			log.Fatalf("Demo seed failed: %v", err)
		}
		gen.Start(ctx, 15*time.Second)
	}

	if *cycleNow {
		log.Println("Running forced assignment cycle")
		for _, cs := range eng.RunAssignmentCycle(ctx, nil, true) {
			if !cs.OK {
				log.Printf("cycle: user %s: %s", cs.UserID, cs.Message)
			}
		}
	}

	// The weekly cycle fires in the configured timezone so rollover
	// lands on Monday morning local time, not UTC.
	sched := cron.NewWithLocation(weekZone)
	err = sched.AddFunc(cfg.Engine.CycleSchedule, func() {
		log.Println("Weekly assignment cycle starting")
		for _, cs := range eng.RunAssignmentCycle(context.Background(), nil, false) {
			if !cs.OK {
				log.Printf("cycle: user %s: %s", cs.UserID, cs.Message)
			}
		}
	})
	if err != nil {
		log.Fatalf("Invalid cycle schedule %q: %v", cfg.Engine.CycleSchedule, err)
	}
	sched.Start()
	defer sched.Stop()

	server := api.NewServer(st, eng, hub, cfg.Server.AuthToken, cfg.Server.AllowedOrigins)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{Addr: addr, Handler: server.Router()}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		shutdownCtx, release := context.WithTimeout(context.Background(), 5*time.Second)
		defer release()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server listening on %s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
