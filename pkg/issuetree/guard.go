package issuetree

// DescendantIDs returns the node's own ID plus the ID of every descendant,
// computed by pre-order traversal.
func DescendantIDs(n *IssueNode) map[string]struct{} {
	ids := make(map[string]struct{})
	Walk([]*IssueNode{n}, func(c *IssueNode) bool {
		ids[c.ID] = struct{}{}
		return true
	})
	return ids
}

// ExcludeIDs is the union of DescendantIDs over every selected node. Feeding
// it to a target picker keeps illegal targets from ever being offered.
func ExcludeIDs(selected []*IssueNode) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, n := range selected {
		for id := range DescendantIDs(n) {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// IsIllegalTarget reports whether placing the selected nodes under targetID
// would create a cycle: the target is one of the selected nodes, a descendant
// of one, or a descendant of a different selected node moved in the same
// batch. The empty targetID means the forest root, which is always legal.
// Callers turn a true result into a user-facing rejection with no state
// change.
func IsIllegalTarget(selected []*IssueNode, targetID string) bool {
	if targetID == "" {
		return false
	}
	_, illegal := ExcludeIDs(selected)[targetID]
	return illegal
}

// topLevelSelection filters the selection down to nodes whose parent is not
// itself selected, so moving a subtree never double-moves its members.
// Order follows the input selection.
func topLevelSelection(selected []*IssueNode) []*IssueNode {
	var top []*IssueNode
	for i, n := range selected {
		inOther := false
		for j, other := range selected {
			if i == j {
				continue
			}
			if other.ID == n.ID {
				// Duplicate entry; keep the first occurrence only.
				inOther = j < i
			} else if _, ok := DescendantIDs(other)[n.ID]; ok {
				inOther = true
			}
			if inOther {
				break
			}
		}
		if !inOther {
			top = append(top, n)
		}
	}
	return top
}
