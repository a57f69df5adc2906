package issuetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusStoreRoundTrip(t *testing.T) {
	fs := NewFocusStore(t.TempDir(), nil)
	assert.Empty(t, fs.Read())

	require.NoError(t, fs.Write([]string{"A", "B"}))
	assert.Equal(t, []string{"A", "B"}, fs.Read())

	require.NoError(t, fs.Add("C"))
	assert.Equal(t, []string{"A", "B", "C"}, fs.Read())

	require.NoError(t, fs.Remove("B"))
	assert.Equal(t, []string{"A", "C"}, fs.Read())
}

func TestFocusStoreAddStripsNamespace(t *testing.T) {
	fs := NewFocusStore(t.TempDir(), nil)
	require.NoError(t, fs.Add(WithFocusedID("A", "7")))
	assert.Equal(t, []string{"A"}, fs.Read())
}

func TestFocusStoreRecoversFromCorruptFile(t *testing.T) {
	root := t.TempDir()
	fs := NewFocusStore(root, nil)
	path := filepath.Join(root, StoreDirName, "focused.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	assert.Empty(t, fs.Read())
}

func TestProjectNamespacesEveryNode(t *testing.T) {
	doc := NewDocument()
	doc.RootNodes = testForest()

	shadow := Project(doc, []string{"B"})
	require.Len(t, shadow, 1)

	b := shadow[0]
	assert.Equal(t, WithFocusedID("B", "0"), b.ID)
	require.Len(t, b.Children, 1)
	assert.Equal(t, WithFocusedID("D", "0"), b.Children[0].ID, "descendants are namespaced too")
	assert.Equal(t, "B.md", b.FilePath)
}

func TestProjectSameNodeTwiceNeverCollides(t *testing.T) {
	doc := NewDocument()
	doc.RootNodes = testForest()

	shadow := Project(doc, []string{"B", "B"})
	require.Len(t, shadow, 2)

	seen := make(map[string]struct{})
	for _, root := range shadow {
		for _, id := range CollectIDs([]*IssueNode{root}) {
			if _, dup := seen[id]; dup {
				t.Fatalf("occurrence id %s collides across focused entries", id)
			}
			seen[id] = struct{}{}
			assert.Equal(t, StripFocusedID(id), StripFocusedID(StripFocusedID(id)))
		}
	}

	// Both occurrences map back to the same canonical subtree.
	assert.Equal(t, "B", StripFocusedID(shadow[0].ID))
	assert.Equal(t, "B", StripFocusedID(shadow[1].ID))
}

func TestProjectSkipsDanglingMarkers(t *testing.T) {
	doc := NewDocument()
	doc.RootNodes = testForest()

	shadow := Project(doc, []string{"gone", "C"})
	require.Len(t, shadow, 1)
	assert.Equal(t, "C", StripFocusedID(shadow[0].ID))
}

func TestProjectDoesNotTouchCanonicalDocument(t *testing.T) {
	doc := NewDocument()
	doc.RootNodes = testForest()

	_ = Project(doc, []string{"A"})

	for _, id := range CollectIDs(doc.RootNodes) {
		assert.False(t, IsFocusedID(id), "canonical id %s was mutated by projection", id)
	}
}

func TestFindFirstFocusedNodeByID(t *testing.T) {
	doc := NewDocument()
	doc.RootNodes = testForest()
	focus := []string{"A", "B"}

	chain, ok := FindFirstFocusedNodeByID(doc, focus, "D")
	require.True(t, ok)
	// First occurrence is inside the "A" focus entry: A -> B -> D.
	require.Len(t, chain, 3)
	assert.Equal(t, WithFocusedID("A", "0"), chain[0].ID)
	assert.Equal(t, WithFocusedID("B", "0"), chain[1].ID)
	assert.Equal(t, WithFocusedID("D", "0"), chain[2].ID)

	_, ok = FindFirstFocusedNodeByID(doc, focus, "missing")
	assert.False(t, ok)
}
