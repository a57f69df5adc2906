// Package issuetree implements the canonical issue hierarchy: the persisted
// tree document, the mutation engine that rearranges it, and the derived
// focused projection used to show the same node in more than one place.
package issuetree

import (
	"path/filepath"
)

// IssueNode is a single entry in the canonical tree. A node references a note
// file by its path relative to the configured root; the same file may be
// referenced by several nodes (each with its own ID) as a result of attach.
type IssueNode struct {
	ID       string       `json:"id"`
	FilePath string       `json:"filePath"`
	Children []*IssueNode `json:"children,omitempty"`
	Expanded *bool        `json:"expanded,omitempty"`

	// ResourceURI is derived from FilePath and the configured root on load.
	// It is never persisted.
	ResourceURI string `json:"-"`
}

// TreeDocument is the persisted canonical hierarchy. RootNodes order is
// display order and is preserved across writes.
type TreeDocument struct {
	Version   string       `json:"version"`
	RootNodes []*IssueNode `json:"rootNodes"`
}

// NewDocument returns an empty document at the current schema version.
func NewDocument() *TreeDocument {
	return &TreeDocument{
		Version:   SchemaVersion,
		RootNodes: []*IssueNode{},
	}
}

// Walk visits every node in the forest in pre-order. Returning false from fn
// stops the walk.
func Walk(roots []*IssueNode, fn func(n *IssueNode) bool) {
	var visit func(n *IssueNode) bool
	visit = func(n *IssueNode) bool {
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for _, r := range roots {
		if !visit(r) {
			return
		}
	}
}

// FindNode returns the node with the given canonical ID, or nil.
func FindNode(roots []*IssueNode, id string) *IssueNode {
	var found *IssueNode
	Walk(roots, func(n *IssueNode) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// PathTo returns the ancestor chain from a root down to the node with the
// given ID, inclusive, or nil if the ID is not present. Ancestry is computed
// on demand; nodes carry no parent pointers.
func PathTo(roots []*IssueNode, id string) []*IssueNode {
	var search func(n *IssueNode, ancestors []*IssueNode) []*IssueNode
	search = func(n *IssueNode, ancestors []*IssueNode) []*IssueNode {
		path := append(append([]*IssueNode{}, ancestors...), n)
		if n.ID == id {
			return path
		}
		for _, c := range n.Children {
			if found := search(c, path); found != nil {
				return found
			}
		}
		return nil
	}
	for _, r := range roots {
		if found := search(r, nil); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(roots []*IssueNode) int {
	count := 0
	Walk(roots, func(*IssueNode) bool {
		count++
		return true
	})
	return count
}

// CollectIDs returns every ID in the forest, in pre-order.
func CollectIDs(roots []*IssueNode) []string {
	var ids []string
	Walk(roots, func(n *IssueNode) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Clone returns a deep copy of the node, keeping IDs.
func (n *IssueNode) Clone() *IssueNode {
	clone := &IssueNode{
		ID:          n.ID,
		FilePath:    n.FilePath,
		ResourceURI: n.ResourceURI,
	}
	if n.Expanded != nil {
		v := *n.Expanded
		clone.Expanded = &v
	}
	for _, c := range n.Children {
		clone.Children = append(clone.Children, c.Clone())
	}
	return clone
}

// CloneWithNewIDs returns a deep copy of the node in which every node of the
// subtree, children included, is given a fresh ID. FilePath and presentation
// state are preserved. This is how attach realizes "reference this note from
// another place" without sharing subtrees.
func (n *IssueNode) CloneWithNewIDs() *IssueNode {
	clone := n.Clone()
	Walk([]*IssueNode{clone}, func(c *IssueNode) bool {
		c.ID = NewNodeID()
		return true
	})
	return clone
}

// removeNode detaches the node with the given ID from the forest and returns
// it, or nil if the ID is not present. The node keeps its subtree.
func removeNode(roots *[]*IssueNode, id string) *IssueNode {
	for i, n := range *roots {
		if n.ID == id {
			*roots = append((*roots)[:i], (*roots)[i+1:]...)
			return n
		}
		if removed := removeNode(&n.Children, id); removed != nil {
			return removed
		}
	}
	return nil
}

// deriveResourceURIs recomputes every node's ResourceURI from its FilePath
// and the configured root.
func deriveResourceURIs(roots []*IssueNode, root string) {
	Walk(roots, func(n *IssueNode) bool {
		n.ResourceURI = "file://" + filepath.Join(root, filepath.FromSlash(n.FilePath))
		return true
	})
}
