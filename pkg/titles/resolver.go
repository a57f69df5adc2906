// Package titles resolves display titles for note files, backed by a SQLite
// cache keyed by path and modification time.
package titles

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/wedaren/issue-manager/pkg/frontmatter"
)

// Resolver looks up note titles: frontmatter title first, then the first H1
// heading, then the filename stem. Results are cached in SQLite and
// invalidated when the file's mtime changes.
type Resolver struct {
	db   *sql.DB
	root string
	log  *logrus.Logger
}

// NewResolver opens (or creates) the title cache at dbPath for notes under
// root.
func NewResolver(dbPath, root string, log *logrus.Logger) (*Resolver, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open title cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS titles (
		path TEXT PRIMARY KEY,
		mtime INTEGER NOT NULL,
		title TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize title cache: %w", err)
	}

	return &Resolver{db: db, root: root, log: log}, nil
}

// Resolve returns the display title for a note path relative to the root.
// It never fails: any error along the way falls back to the filename stem,
// so a dangling tree entry still renders.
func (r *Resolver) Resolve(ctx context.Context, relPath string) string {
	stem := Stem(relPath)

	abs := filepath.Join(r.root, filepath.FromSlash(relPath))
	info, err := os.Stat(abs)
	if err != nil {
		return stem
	}
	mtime := info.ModTime().UnixNano()

	var cached string
	err = r.db.QueryRowContext(ctx,
		"SELECT title FROM titles WHERE path = ? AND mtime = ?", relPath, mtime,
	).Scan(&cached)
	if err == nil {
		return cached
	}
	if err != sql.ErrNoRows {
		r.log.Debugf("title cache lookup %s: %v", relPath, err)
	}

	title := extractFromFile(abs, stem)

	_, err = r.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO titles (path, mtime, title) VALUES (?, ?, ?)",
		relPath, mtime, title,
	)
	if err != nil {
		r.log.Warnf("cache title for %s: %v", relPath, err)
	}
	return title
}

// Func adapts the resolver to the plain title-lookup signature consumed by
// flattening and views.
func (r *Resolver) Func(ctx context.Context) func(relPath string) string {
	return func(relPath string) string {
		return r.Resolve(ctx, relPath)
	}
}

// Invalidate drops the cached entry for a path.
func (r *Resolver) Invalidate(relPath string) error {
	_, err := r.db.Exec("DELETE FROM titles WHERE path = ?", relPath)
	return err
}

// Close closes the cache database.
func (r *Resolver) Close() error {
	return r.db.Close()
}

// Stem returns the filename without directory or .md extension, the
// last-resort title for any note path.
func Stem(relPath string) string {
	return strings.TrimSuffix(filepath.Base(filepath.FromSlash(relPath)), ".md")
}

func extractFromFile(absPath, fallback string) string {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fallback
	}

	fm, body, err := frontmatter.Parse(string(content))
	if err == nil && fm != nil && fm.Title != "" {
		return fm.Title
	}
	if title := firstHeading(body); title != "" {
		return title
	}
	return fallback
}

func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return ""
}
