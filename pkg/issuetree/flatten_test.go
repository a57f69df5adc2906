package issuetree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stemTitle(relPath string) string {
	return strings.TrimSuffix(relPath, ".md")
}

func TestFlattenDepthFirstWithBreadcrumbs(t *testing.T) {
	rows := Flatten(testForest(), stemTitle, nil)

	require.Len(t, rows, 4)
	assert.Equal(t, "A", rows[0].Node.ID)
	assert.Equal(t, 0, rows[0].Depth)
	assert.Empty(t, rows[0].Breadcrumb)

	assert.Equal(t, "B", rows[1].Node.ID)
	assert.Equal(t, []string{"A"}, rows[1].Breadcrumb)

	assert.Equal(t, "D", rows[2].Node.ID)
	assert.Equal(t, 2, rows[2].Depth)
	assert.Equal(t, []string{"A", "B"}, rows[2].Breadcrumb)

	assert.Equal(t, "C", rows[3].Node.ID)
	assert.Equal(t, []string{"A"}, rows[3].Breadcrumb)
}

func TestFlattenExcludesSubtrees(t *testing.T) {
	roots := testForest()
	selected := []*IssueNode{FindNode(roots, "B")}

	rows := Flatten(roots, stemTitle, ExcludeIDs(selected))

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Node.ID)
	}
	assert.Equal(t, []string{"A", "C"}, ids, "B and its subtree are not offered as targets")
}

func TestFlattenNilTitleFallsBackToPath(t *testing.T) {
	rows := Flatten(testForest(), nil, nil)
	assert.Equal(t, "A.md", rows[0].Title)
}
