// Package api exposes the challenge engine over HTTP: session ingest,
// stats and achievement reads, swaps, the assignment cycle trigger, and
// the WebSocket event stream.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/puck-challenge/backend/internal/engine"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/store"
	"github.com/puck-challenge/backend/internal/ws"
)

type Server struct {
	store          store.Store
	engine         *engine.Engine
	hub            *ws.Hub
	authToken      string
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	now            func() time.Time
}

func NewServer(st store.Store, eng *engine.Engine, hub *ws.Hub, authToken string, allowedOrigins []string) *Server {
	s := &Server{
		store:          st,
		engine:         eng,
		hub:            hub,
		authToken:      authToken,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		now:            time.Now,
	}
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}
	return s
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth)
		r.Put("/users/{userID}", s.handlePutUser)
		r.Get("/users/{userID}/stats", s.handleStats)
		r.Get("/users/{userID}/achievements", s.handleAchievements)
		r.Post("/users/{userID}/sessions", s.handlePostSession)
		r.Put("/users/{userID}/sessions/{sessionID}", s.handlePutSession)
		r.Delete("/users/{userID}/sessions/{sessionID}", s.handleDeleteSession)
		r.Post("/users/{userID}/recompute", s.handleRecompute)
		r.Post("/users/{userID}/achievements/{achievementID}/swap", s.handleSwap)
		r.Post("/cycle", s.handleCycle)
	})

	return r
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authorize(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorize(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	if r.URL.Query().Get("token") == s.authToken {
		return true
	}
	if r.Header.Get("X-Puck-Challenge-Token") == s.authToken {
		return true
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.authToken {
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	var u store.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "invalid user payload", http.StatusBadRequest)
		return
	}
	u.ID = chi.URLParam(r, "userID")
	if u.LastSeen.IsZero() {
		u.LastSeen = s.now()
	}
	if err := s.store.PutUser(u); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	weekly, err := s.store.GetWeeklyStats(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if weekly == nil {
		http.Error(w, "no stats yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	achs, err := s.store.ListAchievements(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, achs)
}

func (s *Server) handlePostSession(w http.ResponseWriter, r *http.Request) {
	s.ingestSession(w, r, "")
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	s.ingestSession(w, r, chi.URLParam(r, "sessionID"))
}

// ingestSession upserts one practice session and recomputes the user's
// stats in the same request, so the response is only written after any
// completion flips have been persisted and broadcast.
func (s *Server) ingestSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	userID := chi.URLParam(r, "userID")

	var raw shot.RawSession
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid session payload", http.StatusBadRequest)
		return
	}
	if sessionID != "" {
		raw.ID = sessionID
	}
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if raw.Date.IsZero() {
		raw.Date = s.now()
	}

	user, err := s.store.GetUser(userID)
	if err == store.ErrNotFound {
		user = store.User{ID: userID}
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	user.LastSeen = s.now()
	if err := s.store.PutUser(user); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.store.PutSession(userID, user.CurrentIteration, raw); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if res := s.engine.RecomputeStats(userID); !res.OK {
		http.Error(w, res.Message, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessionId": raw.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	sessionID := chi.URLParam(r, "sessionID")

	user, err := s.store.GetUser(userID)
	if err == store.ErrNotFound {
		user = store.User{ID: userID}
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	err = s.store.DeleteSession(userID, user.CurrentIteration, sessionID)
	if err == store.ErrNotFound {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if res := s.engine.RecomputeStats(userID); !res.OK {
		http.Error(w, res.Message, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	res := s.engine.RecomputeStats(chi.URLParam(r, "userID"))
	status := http.StatusOK
	if !res.OK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	out := s.engine.Swap(chi.URLParam(r, "userID"), chi.URLParam(r, "achievementID"))
	status := http.StatusOK
	if !out.OK {
		// Policy rejections (cooldown, completed, unknown id) are not
		// server faults.
		status = http.StatusConflict
		if out.Message == "achievement not found" {
			status = http.StatusNotFound
		}
	}
	writeJSON(w, status, out)
}

type cycleRequest struct {
	UserIDs []string `json:"userIds"`
	Force   bool     `json:"force"`
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	var req cycleRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid cycle payload", http.StatusBadRequest)
			return
		}
	}
	statuses := s.engine.RunAssignmentCycle(r.Context(), req.UserIDs, req.Force)
	writeJSON(w, http.StatusOK, map[string]any{"users": statuses})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	c := s.hub.AddClient(conn, r.URL.Query().Get("user"))
	if c == nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections"))
		conn.Close()
		return
	}
	log.Printf("ws client connected: %s", r.RemoteAddr)

	go func() {
		defer func() {
			s.hub.RemoveClient(c)
			log.Printf("ws client disconnected: %s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	h := parsed.Host
	if h == "" {
		return false
	}
	if h == r.Host {
		return true
	}
	if strings.HasPrefix(h, "localhost:") || h == "localhost" {
		return true
	}
	if strings.HasPrefix(h, "127.0.0.1:") || h == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(h, "[::1]:") || h == "::1" {
		return true
	}
	return false
}

type healthResponse struct {
	Status        string  `json:"status"`
	StoreError    string  `json:"storeError,omitempty"`
	WSClients     int     `json:"wsClients"`
	RSSBytes      uint64  `json:"rssBytes"`
	CPUPercent    float64 `json:"cpuPercent"`
	HostUptimeSec uint64  `json:"hostUptimeSec"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", WSClients: s.hub.ClientCount()}

	status := http.StatusOK
	if err := s.store.Ping(); err != nil {
		resp.Status = "degraded"
		resp.StoreError = err.Error()
		status = http.StatusServiceUnavailable
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			resp.RSSBytes = mi.RSS
		}
		if cpu, err := p.CPUPercent(); err == nil {
			resp.CPUPercent = cpu
		}
	}
	if up, err := host.Uptime(); err == nil {
		resp.HostUptimeSec = up
	}

	writeJSON(w, status, resp)
}
