package titles

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	r, err := NewResolver(filepath.Join(t.TempDir(), "titles.db"), root, nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, root
}

func writeNote(t *testing.T, root, relPath, content string) {
	t.Helper()
	abs := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

func TestResolveFrontmatterTitle(t *testing.T) {
	r, root := newTestResolver(t)
	writeNote(t, root, "a.md", "---\ntitle: Proper Title\n---\n\nbody")

	assert.Equal(t, "Proper Title", r.Resolve(context.Background(), "a.md"))
}

func TestResolveHeadingFallback(t *testing.T) {
	r, root := newTestResolver(t)
	writeNote(t, root, "sub/b.md", "# Heading Title\n\nbody")

	assert.Equal(t, "Heading Title", r.Resolve(context.Background(), "sub/b.md"))
}

func TestResolveStemFallbackForMissingFile(t *testing.T) {
	r, _ := newTestResolver(t)
	assert.Equal(t, "ghost", r.Resolve(context.Background(), "notes/ghost.md"))
}

func TestResolveStemFallbackForUntitledContent(t *testing.T) {
	r, root := newTestResolver(t)
	writeNote(t, root, "c.md", "no headings anywhere")

	assert.Equal(t, "c", r.Resolve(context.Background(), "c.md"))
}

func TestResolveCacheInvalidatedByMtime(t *testing.T) {
	r, root := newTestResolver(t)
	ctx := context.Background()

	writeNote(t, root, "d.md", "# First")
	assert.Equal(t, "First", r.Resolve(ctx, "d.md"))

	// Rewrite with a different title and a newer mtime.
	writeNote(t, root, "d.md", "# Second")
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(root, "d.md"), future, future))

	assert.Equal(t, "Second", r.Resolve(ctx, "d.md"))
}

func TestInvalidate(t *testing.T) {
	r, root := newTestResolver(t)
	ctx := context.Background()

	writeNote(t, root, "e.md", "# Cached")
	assert.Equal(t, "Cached", r.Resolve(ctx, "e.md"))
	require.NoError(t, r.Invalidate("e.md"))

	// Still resolvable, just recomputed.
	assert.Equal(t, "Cached", r.Resolve(ctx, "e.md"))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "note", Stem("a/b/note.md"))
	assert.Equal(t, "plain", Stem("plain"))
}
