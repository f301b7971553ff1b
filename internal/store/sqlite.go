package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo

	"github.com/puck-challenge/backend/internal/achievement"
	"github.com/puck-challenge/backend/internal/shot"
	"github.com/puck-challenge/backend/internal/stats"
)

// SQLite persists all documents in a single database file. Stats and
// achievements are stored as JSON columns keyed by user, which keeps
// the full-overwrite semantics of the document model while giving the
// session and user tables real columns to query on.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at dir/challenge.db with WAL
// mode and a busy timeout, then applies idempotent migrations.
func OpenSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := filepath.Join(dir, "challenge.db") + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			display_name      TEXT NOT NULL DEFAULT '',
			age               INTEGER NOT NULL DEFAULT 0,
			timezone          TEXT NOT NULL DEFAULT '',
			last_seen         INTEGER NOT NULL DEFAULT 0,
			pro_until         INTEGER NOT NULL DEFAULT 0,
			current_iteration TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_seen ON users(last_seen)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			user_id      TEXT NOT NULL,
			iteration_id TEXT NOT NULL,
			id           TEXT NOT NULL,
			date         INTEGER NOT NULL,
			doc          TEXT NOT NULL,
			PRIMARY KEY (user_id, iteration_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(user_id, iteration_id, date)`,

		`CREATE TABLE IF NOT EXISTS weekly_stats (
			user_id TEXT PRIMARY KEY,
			doc     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS achievements (
			seq     INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			id      TEXT NOT NULL,
			doc     TEXT NOT NULL,
			UNIQUE (user_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS archived_achievements (
			user_id     TEXT NOT NULL,
			id          TEXT NOT NULL,
			doc         TEXT NOT NULL,
			archived_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,

		`CREATE TABLE IF NOT EXISTS history (
			user_id         TEXT PRIMARY KEY,
			total_completed INTEGER NOT NULL DEFAULT 0,
			weekly_streak   INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS swap_meta (
			user_id    TEXT PRIMARY KEY,
			swap_count INTEGER NOT NULL DEFAULT 0,
			last_swap  INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Ping() error  { return s.db.Ping() }
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) GetUser(id string) (User, error) {
	var u User
	var lastSeen, proUntil int64
	err := s.db.QueryRow(
		`SELECT id, display_name, age, timezone, last_seen, pro_until, current_iteration
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.DisplayName, &u.Age, &u.Timezone, &lastSeen, &proUntil, &u.CurrentIteration)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.LastSeen = fromUnix(lastSeen)
	u.ProUntil = fromUnix(proUntil)
	return u, nil
}

func (s *SQLite) PutUser(u User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, display_name, age, timezone, last_seen, pro_until, current_iteration)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			display_name=excluded.display_name,
			age=excluded.age,
			timezone=excluded.timezone,
			last_seen=excluded.last_seen,
			pro_until=excluded.pro_until,
			current_iteration=excluded.current_iteration`,
		u.ID, u.DisplayName, u.Age, u.Timezone, toUnix(u.LastSeen), toUnix(u.ProUntil), u.CurrentIteration,
	)
	return err
}

func (s *SQLite) ListEligibleUserIDs(activeSince time.Time) ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM users WHERE last_seen >= ? ORDER BY id`, toUnix(activeSince))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) GetSessions(userID, iterationID string) ([]shot.RawSession, error) {
	rows, err := s.db.Query(
		`SELECT doc FROM sessions WHERE user_id = ? AND iteration_id = ? ORDER BY date DESC`,
		userID, iterationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []shot.RawSession
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var raw shot.RawSession
		if err := json.Unmarshal([]byte(doc), &raw); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

func (s *SQLite) PutSession(userID, iterationID string, raw shot.RawSession) error {
	doc, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (user_id, iteration_id, id, date, doc) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, iteration_id, id) DO UPDATE SET date=excluded.date, doc=excluded.doc`,
		userID, iterationID, raw.ID, raw.Date.UnixMilli(), string(doc),
	)
	return err
}

func (s *SQLite) DeleteSession(userID, iterationID, sessionID string) error {
	res, err := s.db.Exec(
		`DELETE FROM sessions WHERE user_id = ? AND iteration_id = ? AND id = ?`,
		userID, iterationID, sessionID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) GetWeeklyStats(userID string) (*stats.Weekly, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM weekly_stats WHERE user_id = ?`, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var w stats.Weekly
	if err := json.Unmarshal([]byte(doc), &w); err != nil {
		return nil, fmt.Errorf("decode weekly stats: %w", err)
	}
	return &w, nil
}

func (s *SQLite) SetWeeklyStats(userID string, w *stats.Weekly) error {
	doc, err := json.Marshal(w)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO weekly_stats (user_id, doc) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc=excluded.doc`,
		userID, string(doc),
	)
	return err
}

func (s *SQLite) ListAchievements(userID string) ([]achievement.Achievement, error) {
	rows, err := s.db.Query(`SELECT doc FROM achievements WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []achievement.Achievement
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var a achievement.Achievement
		if err := json.Unmarshal([]byte(doc), &a); err != nil {
			return nil, fmt.Errorf("decode achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) AddAchievement(userID string, a achievement.Achievement) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO achievements (user_id, id, doc) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, id) DO UPDATE SET doc=excluded.doc`,
		userID, a.AchievementID, string(doc),
	)
	return err
}

func (s *SQLite) DeleteAchievement(userID, achievementID string) error {
	res, err := s.db.Exec(`DELETE FROM achievements WHERE user_id = ? AND id = ?`, userID, achievementID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) SetAchievementCompleted(userID, achievementID string, completed bool, at *time.Time) error {
	var doc string
	err := s.db.QueryRow(
		`SELECT doc FROM achievements WHERE user_id = ? AND id = ?`, userID, achievementID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	var a achievement.Achievement
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return fmt.Errorf("decode achievement: %w", err)
	}
	a.Completed = completed
	a.DateCompleted = at
	updated, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE achievements SET doc = ? WHERE user_id = ? AND id = ?`,
		string(updated), userID, achievementID,
	)
	return err
}

func (s *SQLite) ArchiveAchievement(userID string, a achievement.Achievement, archivedAt time.Time) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO archived_achievements (user_id, id, doc, archived_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, id) DO UPDATE SET doc=excluded.doc, archived_at=excluded.archived_at`,
		userID, a.AchievementID, string(doc), toUnix(archivedAt),
	)
	return err
}

func (s *SQLite) GetHistory(userID string) (History, error) {
	var h History
	err := s.db.QueryRow(
		`SELECT total_completed, weekly_streak FROM history WHERE user_id = ?`, userID,
	).Scan(&h.TotalAchievementsCompleted, &h.WeeklyAllCompletedStreak)
	if err == sql.ErrNoRows {
		return History{}, nil
	}
	return h, err
}

func (s *SQLite) SetHistory(userID string, h History) error {
	_, err := s.db.Exec(
		`INSERT INTO history (user_id, total_completed, weekly_streak) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET total_completed=excluded.total_completed, weekly_streak=excluded.weekly_streak`,
		userID, h.TotalAchievementsCompleted, h.WeeklyAllCompletedStreak,
	)
	return err
}

func (s *SQLite) GetSwapMeta(userID string) (SwapMeta, error) {
	var m SwapMeta
	var lastSwap int64
	err := s.db.QueryRow(
		`SELECT swap_count, last_swap FROM swap_meta WHERE user_id = ?`, userID,
	).Scan(&m.SwapCount, &lastSwap)
	if err == sql.ErrNoRows {
		return SwapMeta{}, nil
	}
	if err != nil {
		return SwapMeta{}, err
	}
	m.LastSwap = fromUnix(lastSwap)
	return m, nil
}

func (s *SQLite) SetSwapMeta(userID string, m SwapMeta) error {
	_, err := s.db.Exec(
		`INSERT INTO swap_meta (user_id, swap_count, last_swap) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET swap_count=excluded.swap_count, last_swap=excluded.last_swap`,
		userID, m.SwapCount, toUnix(m.LastSwap),
	)
	return err
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnix(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
