package issuetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type countingNotifier struct{ refreshes int }

func (n *countingNotifier) NotifyRefresh() { n.refreshes++ }

// newTestEngine seeds a store with A -> [B -> [D], C] and returns an engine
// over it.
func newTestEngine(t *testing.T) (*Engine, *countingNotifier) {
	t.Helper()
	s := newTestStore(t)
	doc := NewDocument()
	doc.RootNodes = testForest()
	require.NoError(t, s.Write(doc))

	notifier := &countingNotifier{}
	return NewEngine(s, notifier, nil), notifier
}

func treeIDs(t *testing.T, e *Engine) []string {
	t.Helper()
	return CollectIDs(e.Store().Read().RootNodes)
}

func TestMoveToSibling(t *testing.T) {
	e, notifier := newTestEngine(t)

	// A -> [B -> [D], C]; move D under C.
	require.NoError(t, e.MoveTo([]string{"D"}, "C"))

	doc := e.Store().Read()
	b := FindNode(doc.RootNodes, "B")
	c := FindNode(doc.RootNodes, "C")
	require.NotNil(t, b)
	require.NotNil(t, c)
	assert.Empty(t, b.Children, "D left its old parent")
	require.Len(t, c.Children, 1)
	assert.Equal(t, "D", c.Children[0].ID)
	assert.Equal(t, 1, notifier.refreshes)
}

func TestMoveToRoot(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.MoveTo([]string{"B"}, ""))

	doc := e.Store().Read()
	require.Len(t, doc.RootNodes, 2)
	assert.Equal(t, "B", doc.RootNodes[0].ID, "moved node inserted at the front")
	assert.Equal(t, "A", doc.RootNodes[1].ID)
	// B keeps its subtree.
	require.Len(t, doc.RootNodes[0].Children, 1)
	assert.Equal(t, "D", doc.RootNodes[0].Children[0].ID)
}

func TestMoveToPreservesNodeCount(t *testing.T) {
	e, _ := newTestEngine(t)
	before := len(treeIDs(t, e))

	require.NoError(t, e.MoveTo([]string{"D"}, "C"))

	assert.Equal(t, before, len(treeIDs(t, e)))
}

func TestMoveToOwnDescendantRejected(t *testing.T) {
	e, notifier := newTestEngine(t)
	before := treeIDs(t, e)

	err := e.MoveTo([]string{"B"}, "D")
	require.ErrorIs(t, err, ErrIllegalTarget)

	assert.Equal(t, before, treeIDs(t, e), "document unchanged after rejection")
	assert.Zero(t, notifier.refreshes, "no refresh fired for a rejected mutation")
}

func TestMoveToSelfRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	require.ErrorIs(t, e.MoveTo([]string{"C"}, "C"), ErrIllegalTarget)
}

func TestMoveToAcceptsNamespacedIDs(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.MoveTo([]string{WithFocusedID("D", "0")}, WithFocusedID("C", "1")))

	c := FindNode(e.Store().Read().RootNodes, "C")
	require.Len(t, c.Children, 1)
	assert.Equal(t, "D", c.Children[0].ID)
}

func TestMoveToBatchSkipsNestedSelection(t *testing.T) {
	e, _ := newTestEngine(t)

	// Selecting B and D together must move the B subtree once.
	require.NoError(t, e.MoveTo([]string{"B", "D"}, "C"))

	doc := e.Store().Read()
	c := FindNode(doc.RootNodes, "C")
	require.Len(t, c.Children, 1)
	assert.Equal(t, "B", c.Children[0].ID)
	require.Len(t, c.Children[0].Children, 1)
	assert.Equal(t, "D", c.Children[0].Children[0].ID)
}

func TestAttachToClonesWithFreshIDs(t *testing.T) {
	e, _ := newTestEngine(t)
	before := treeIDs(t, e)

	// A -> [B -> [D], C]; attach D under A.
	require.NoError(t, e.AttachTo([]string{"D"}, "A"))

	doc := e.Store().Read()

	// Original stays put.
	b := FindNode(doc.RootNodes, "B")
	require.Len(t, b.Children, 1)
	assert.Equal(t, "D", b.Children[0].ID)

	// Clone is at the front of A's children with the same file but a new id.
	a := FindNode(doc.RootNodes, "A")
	require.Len(t, a.Children, 3)
	clone := a.Children[0]
	assert.Equal(t, "D.md", clone.FilePath)
	assert.NotEqual(t, "D", clone.ID)

	// The clone's ids collide with nothing that existed before.
	beforeSet := make(map[string]struct{}, len(before))
	for _, id := range before {
		beforeSet[id] = struct{}{}
	}
	for _, id := range CollectIDs([]*IssueNode{clone}) {
		_, exists := beforeSet[id]
		assert.False(t, exists, "clone id %s collides with original document", id)
	}

	assert.Equal(t, len(before)+1, len(treeIDs(t, e)), "attach grows by exactly the subtree size")
}

func TestAttachToSubtreeRenamesEveryNode(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.AttachTo([]string{"B"}, "C"))

	doc := e.Store().Read()
	c := FindNode(doc.RootNodes, "C")
	require.Len(t, c.Children, 1)
	clone := c.Children[0]
	assert.Equal(t, "B.md", clone.FilePath)
	assert.NotEqual(t, "B", clone.ID)
	require.Len(t, clone.Children, 1)
	assert.NotEqual(t, "D", clone.Children[0].ID, "children get fresh ids too")
	assert.Equal(t, "D.md", clone.Children[0].FilePath)

	assertUniqueIDs(t, doc)
}

func TestDisassociateRemovesSubtree(t *testing.T) {
	e, _ := newTestEngine(t)

	removed, err := e.Disassociate("B")
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "B and D both removed")

	doc := e.Store().Read()
	require.Len(t, doc.RootNodes, 1)
	a := doc.RootNodes[0]
	require.Len(t, a.Children, 1)
	assert.Equal(t, "C", a.Children[0].ID)
}

func TestDisassociateUnknownID(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Disassociate("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddSubIssue(t *testing.T) {
	e, _ := newTestEngine(t)

	created, err := e.AddSubIssue("C", "notes/new.md")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	doc := e.Store().Read()
	c := FindNode(doc.RootNodes, "C")
	require.Len(t, c.Children, 1)
	assert.Equal(t, created.ID, c.Children[0].ID)
	assert.Equal(t, "notes/new.md", c.Children[0].FilePath)
}

func TestAddSubIssueAtRoot(t *testing.T) {
	e, _ := newTestEngine(t)

	created, err := e.AddSubIssue("", "top.md")
	require.NoError(t, err)

	doc := e.Store().Read()
	require.Len(t, doc.RootNodes, 2)
	assert.Equal(t, created.ID, doc.RootNodes[0].ID)
}

func TestHasChildren(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.True(t, e.HasChildren("B"))
	assert.False(t, e.HasChildren("C"))
	assert.False(t, e.HasChildren("nope"))
}

func assertUniqueIDs(t *testing.T, doc *TreeDocument) {
	t.Helper()
	seen := make(map[string]struct{})
	for _, id := range CollectIDs(doc.RootNodes) {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s in document", id)
		}
		seen[id] = struct{}{}
	}
}

// TestEngineOperationsKeepIDsUnique drives the engine with random operation
// sequences and checks that ids stay unique and structure stays intact.
func TestEngineOperationsKeepIDsUnique(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newTestStore(t)
		doc := NewDocument()
		doc.RootNodes = testForest()
		require.NoError(t, s.Write(doc))
		e := NewEngine(s, nil, nil)

		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ids := CollectIDs(e.Store().Read().RootNodes)
			if len(ids) == 0 {
				break
			}
			pick := func(label string) string {
				return ids[rapid.IntRange(0, len(ids)-1).Draw(rt, label)]
			}
			// Root target ~25% of the time.
			target := ""
			if rapid.IntRange(0, 3).Draw(rt, "useTarget") > 0 {
				target = pick("target")
			}

			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				before := len(ids)
				if err := e.MoveTo([]string{pick("moved")}, target); err == nil {
					if after := len(CollectIDs(e.Store().Read().RootNodes)); after != before {
						rt.Fatalf("move changed node count: %d -> %d", before, after)
					}
				}
			case 1:
				_ = e.AttachTo([]string{pick("attached")}, target)
			case 2:
				if _, err := e.AddSubIssue(target, "extra.md"); err != nil {
					rt.Fatalf("add sub issue: %v", err)
				}
			}
			assertUniqueIDs(t, e.Store().Read())
		}
	})
}
