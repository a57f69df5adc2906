// Package session holds per-user working state that used to live in implicit
// globals: search history and the suggestion cache. It is loaded on start,
// persisted on every mutation, and injected into whatever needs it.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/goccy/go-json"
)

// Session is the persistent per-user state store.
type Session struct {
	db  *sql.DB
	log *logrus.Logger
}

// Open creates or opens the session database.
func Open(dbPath string, log *logrus.Logger) (*Session, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		searched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS suggestion_cache (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize session db: %w", err)
	}

	return &Session{db: db, log: log}, nil
}

// AddSearch records a search query.
func (s *Session) AddSearch(query string) error {
	if query == "" {
		return nil
	}
	_, err := s.db.Exec("INSERT INTO search_history (query) VALUES (?)", query)
	return err
}

// History returns distinct recent queries, most recent first.
func (s *Session) History(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT query FROM search_history
		GROUP BY query
		ORDER BY MAX(id) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// CacheSuggestions stores the suggestion payload for a key.
func (s *Session) CacheSuggestions(key string, values []string) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO suggestion_cache (key, payload, cached_at) VALUES (?, ?, ?)",
		key, string(payload), time.Now(),
	)
	return err
}

// Suggestions returns the cached payload for a key if it is younger than
// maxAge.
func (s *Session) Suggestions(key string, maxAge time.Duration) ([]string, bool) {
	var payload string
	var cachedAt time.Time
	err := s.db.QueryRow(
		"SELECT payload, cached_at FROM suggestion_cache WHERE key = ?", key,
	).Scan(&payload, &cachedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.Debugf("suggestion cache lookup %s: %v", key, err)
		}
		return nil, false
	}
	if time.Since(cachedAt) > maxAge {
		return nil, false
	}

	var values []string
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		s.log.Warnf("corrupt suggestion cache entry %s: %v", key, err)
		return nil, false
	}
	return values, true
}

// Close closes the session database.
func (s *Session) Close() error {
	return s.db.Close()
}
