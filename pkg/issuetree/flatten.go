package issuetree

import "context"

// TitleFunc resolves a display title for a note path relative to the root.
// Implementations may fall back to the filename stem on a cache miss.
type TitleFunc func(relPath string) string

// FlattenedNode is one row of the depth-first flattening of the canonical
// tree, carrying the ancestor-title breadcrumb used when offering the node
// as a move/attach target.
type FlattenedNode struct {
	Node       *IssueNode
	Depth      int
	Title      string
	Breadcrumb []string
}

// TargetPicker is the selection collaborator: given candidate targets with
// illegal ones already removed, it returns the chosen target ID, or ok=false
// when the user backed out. The empty ID means the forest root.
type TargetPicker interface {
	PickTarget(ctx context.Context, candidates []FlattenedNode) (targetID string, ok bool, err error)
}

// Flatten walks the forest depth-first and returns one row per node, skipping
// any node whose ID is in exclude (and, with it, its entire subtree, since a
// descendant of an excluded node is itself an illegal target).
func Flatten(roots []*IssueNode, title TitleFunc, exclude map[string]struct{}) []FlattenedNode {
	if title == nil {
		title = func(relPath string) string { return relPath }
	}

	var rows []FlattenedNode
	var visit func(n *IssueNode, depth int, crumbs []string)
	visit = func(n *IssueNode, depth int, crumbs []string) {
		if _, skip := exclude[n.ID]; skip {
			return
		}
		t := title(n.FilePath)
		rows = append(rows, FlattenedNode{
			Node:       n,
			Depth:      depth,
			Title:      t,
			Breadcrumb: append([]string{}, crumbs...),
		})
		childCrumbs := append(append([]string{}, crumbs...), t)
		for _, c := range n.Children {
			visit(c, depth+1, childCrumbs)
		}
	}
	for _, r := range roots {
		visit(r, 0, nil)
	}
	return rows
}
