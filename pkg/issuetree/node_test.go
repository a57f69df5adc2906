package issuetree

import "testing"

func TestCloneKeepsIDs(t *testing.T) {
	orig := testForest()[0]
	clone := orig.Clone()

	if got, want := CollectIDs([]*IssueNode{clone}), CollectIDs([]*IssueNode{orig}); len(got) != len(want) {
		t.Fatalf("clone has %d nodes, want %d", len(got), len(want))
	} else {
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("clone id %d = %q, want %q", i, got[i], want[i])
			}
		}
	}

	// The clone is independent: mutating it leaves the original alone.
	clone.Children = nil
	if len(orig.Children) != 2 {
		t.Error("mutating clone affected original")
	}
}

func TestCloneWithNewIDsRenamesAll(t *testing.T) {
	orig := testForest()[0]
	origIDs := make(map[string]struct{})
	for _, id := range CollectIDs([]*IssueNode{orig}) {
		origIDs[id] = struct{}{}
	}

	clone := orig.CloneWithNewIDs()
	for _, id := range CollectIDs([]*IssueNode{clone}) {
		if _, exists := origIDs[id]; exists {
			t.Errorf("clone kept original id %q", id)
		}
	}
	if clone.FilePath != orig.FilePath {
		t.Errorf("file path changed: %q != %q", clone.FilePath, orig.FilePath)
	}
}

func TestPathTo(t *testing.T) {
	roots := testForest()

	path := PathTo(roots, "D")
	if len(path) != 3 {
		t.Fatalf("path length = %d, want 3", len(path))
	}
	for i, want := range []string{"A", "B", "D"} {
		if path[i].ID != want {
			t.Errorf("path[%d] = %q, want %q", i, path[i].ID, want)
		}
	}

	if PathTo(roots, "missing") != nil {
		t.Error("expected nil path for unknown id")
	}
}

func TestCountNodes(t *testing.T) {
	if got := CountNodes(testForest()); got != 4 {
		t.Errorf("CountNodes = %d, want 4", got)
	}
	if got := CountNodes(nil); got != 0 {
		t.Errorf("CountNodes(nil) = %d, want 0", got)
	}
}
