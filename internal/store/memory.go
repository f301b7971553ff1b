package store

import (
	"sort"
	"sync"
	"time"

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
)

// Memory is an in-memory Store for tests and demo mode.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]User
	sessions  map[string]map[string]shot.RawSession // userID|iterationID -> sessionID -> raw
	weekly    map[string]*stats.Weekly
	achs      map[string][]achievement.Achievement
	archived  map[string][]achievement.Achievement
	histories map[string]History
	swaps     map[string]SwapMeta
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]User),
		sessions:  make(map[string]map[string]shot.RawSession),
		weekly:    make(map[string]*stats.Weekly),
		achs:      make(map[string][]achievement.Achievement),
		archived:  make(map[string][]achievement.Achievement),
		histories: make(map[string]History),
		swaps:     make(map[string]SwapMeta),
	}
}

func (m *Memory) Ping() error  { return nil }
func (m *Memory) Close() error { return nil }

func sessionKey(userID, iterationID string) string {
	return userID + "|" + iterationID
}

func (m *Memory) GetUser(id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) PutUser(u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *Memory) ListEligibleUserIDs(activeSince time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, u := range m.users {
		if !u.LastSeen.Before(activeSince) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) GetSessions(userID, iterationID string) ([]shot.RawSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []shot.RawSession
	for _, s := range m.sessions[sessionKey(userID, iterationID)] {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *Memory) PutSession(userID, iterationID string, s shot.RawSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(userID, iterationID)
	if m.sessions[key] == nil {
		m.sessions[key] = make(map[string]shot.RawSession)
	}
	m.sessions[key][s.ID] = s
	return nil
}

func (m *Memory) DeleteSession(userID, iterationID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := sessionKey(userID, iterationID)
	if _, ok := m.sessions[key][sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions[key], sessionID)
	return nil
}

func (m *Memory) GetWeeklyStats(userID string) (*stats.Weekly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.weekly[userID]
	if !ok {
		return nil, nil
	}
	clone := *w
	clone.Sessions = append([]shot.Session(nil), w.Sessions...)
	return &clone, nil
}

func (m *Memory) SetWeeklyStats(userID string, w *stats.Weekly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *w
	clone.Sessions = append([]shot.Session(nil), w.Sessions...)
	m.weekly[userID] = &clone
	return nil
}

func (m *Memory) ListAchievements(userID string) ([]achievement.Achievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]achievement.Achievement(nil), m.achs[userID]...), nil
}

func (m *Memory) AddAchievement(userID string, a achievement.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achs[userID] = append(m.achs[userID], a)
	return nil
}

func (m *Memory) DeleteAchievement(userID, achievementID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.achs[userID]
	for i, a := range list {
		if a.AchievementID == achievementID {
			m.achs[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) SetAchievementCompleted(userID, achievementID string, completed bool, at *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.achs[userID]
	for i := range list {
		if list[i].AchievementID == achievementID {
			list[i].Completed = completed
			list[i].DateCompleted = at
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) ArchiveAchievement(userID string, a achievement.Achievement, archivedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived[userID] = append(m.archived[userID], a)
	return nil
}

func (m *Memory) GetHistory(userID string) (History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.histories[userID], nil
}

func (m *Memory) SetHistory(userID string, h History) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories[userID] = h
	return nil
}

func (m *Memory) GetSwapMeta(userID string) (SwapMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.swaps[userID], nil
}

func (m *Memory) SetSwapMeta(userID string, meta SwapMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps[userID] = meta
	return nil
}

// Archived returns the archive for inspection in tests.
func (m *Memory) Archived(userID string) []achievement.Achievement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]achievement.Achievement(nil), m.archived[userID]...)
}
