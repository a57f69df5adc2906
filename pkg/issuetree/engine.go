package issuetree

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Engine errors callers are expected to branch on.
var (
	// ErrIllegalTarget is returned when a move or attach would place a node
	// under itself or one of its own descendants.
	ErrIllegalTarget = errors.New("target is the node itself or one of its descendants")
	// ErrNotFound is returned when none of the referenced nodes exist in the
	// canonical document.
	ErrNotFound = errors.New("node not found in issue tree")
)

// Notifier receives a signal after every successful write so registered views
// can recompute their projections from the new canonical document.
type Notifier interface {
	NotifyRefresh()
}

// Engine applies structural mutations to the canonical tree. Every operation
// follows the same shape: read the document fresh, strip occurrence
// namespaces off incoming IDs, validate, transform in memory, write once.
// There is no lock; re-reading immediately before validation keeps the
// lost-update window as small as the storage round trip.
type Engine struct {
	store    *Store
	notifier Notifier
	log      *logrus.Logger
}

// NewEngine creates a mutation engine over the given store. notifier may be
// nil.
func NewEngine(store *Store, notifier Notifier, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: store, notifier: notifier, log: log}
}

// Store exposes the underlying tree store.
func (e *Engine) Store() *Store { return e.store }

// MoveTo relocates the selected nodes (and their subtrees) under targetID, or
// to the forest root when targetID is empty. Moved nodes are inserted at the
// front of the target's children in selection order. Nodes whose parent is
// also selected move with their parent, not separately.
func (e *Engine) MoveTo(ids []string, targetID string) error {
	doc := e.store.Read()

	selected, err := e.resolve(doc, ids)
	if err != nil {
		return err
	}
	top := topLevelSelection(selected)
	targetID = StripFocusedID(targetID)

	if IsIllegalTarget(top, targetID) {
		return ErrIllegalTarget
	}

	moved := make([]*IssueNode, 0, len(top))
	for _, n := range top {
		if detached := removeNode(&doc.RootNodes, n.ID); detached != nil {
			moved = append(moved, detached)
		}
	}

	if err := e.insert(doc, moved, targetID); err != nil {
		return err
	}
	return e.persist(doc)
}

// AttachTo inserts a structural copy of each selected node under targetID,
// leaving the originals exactly where they are. Every node in each copied
// subtree gets a fresh ID; file paths and presentation state are preserved.
func (e *Engine) AttachTo(ids []string, targetID string) error {
	doc := e.store.Read()

	selected, err := e.resolve(doc, ids)
	if err != nil {
		return err
	}
	top := topLevelSelection(selected)
	targetID = StripFocusedID(targetID)

	if IsIllegalTarget(top, targetID) {
		return ErrIllegalTarget
	}

	clones := make([]*IssueNode, 0, len(top))
	for _, n := range top {
		clones = append(clones, n.CloneWithNewIDs())
	}

	if err := e.insert(doc, clones, targetID); err != nil {
		return err
	}
	return e.persist(doc)
}

// Disassociate removes the node and its entire subtree from the canonical
// document. The backing files are untouched. It returns the number of nodes
// removed so callers can tell the user when the removal was recursive.
func (e *Engine) Disassociate(id string) (int, error) {
	doc := e.store.Read()

	removed := removeNode(&doc.RootNodes, StripFocusedID(id))
	if removed == nil {
		return 0, ErrNotFound
	}
	count := CountNodes([]*IssueNode{removed})

	if err := e.persist(doc); err != nil {
		return 0, err
	}
	return count, nil
}

// HasChildren reports whether the node currently has children, so callers can
// warn before a recursive Disassociate.
func (e *Engine) HasChildren(id string) bool {
	n := FindNode(e.store.Read().RootNodes, StripFocusedID(id))
	return n != nil && len(n.Children) > 0
}

// AddSubIssue creates a brand-new node for filePath and inserts it as the
// first child of parentID, or as a new root when parentID is empty. The
// created node is returned.
func (e *Engine) AddSubIssue(parentID, filePath string) (*IssueNode, error) {
	doc := e.store.Read()

	node := &IssueNode{
		ID:       NewNodeID(),
		FilePath: filePath,
	}

	if err := e.insert(doc, []*IssueNode{node}, StripFocusedID(parentID)); err != nil {
		return nil, err
	}
	if err := e.persist(doc); err != nil {
		return nil, err
	}
	return node, nil
}

// SetExpanded flags a single node's expanded state and persists. Batched
// expand/collapse traffic should go through ExpandSync instead.
func (e *Engine) SetExpanded(id string, expanded bool) error {
	doc := e.store.Read()

	n := FindNode(doc.RootNodes, StripFocusedID(id))
	if n == nil {
		return ErrNotFound
	}
	n.Expanded = &expanded
	return e.persist(doc)
}

// resolve strips every incoming ID and looks it up in the document. IDs no
// longer present are skipped; an entirely stale selection is an error.
func (e *Engine) resolve(doc *TreeDocument, ids []string) ([]*IssueNode, error) {
	var selected []*IssueNode
	for _, id := range ids {
		canonical := StripFocusedID(id)
		if n := FindNode(doc.RootNodes, canonical); n != nil {
			selected = append(selected, n)
		} else {
			e.log.Debugf("selection id %s no longer in tree, skipping", canonical)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNotFound
	}
	return selected, nil
}

// insert places the nodes at the front of the target's children, or of the
// root list when targetID is empty. The target is looked up after any
// detachment so a stale target surfaces as ErrNotFound instead of a silent
// reattach.
func (e *Engine) insert(doc *TreeDocument, nodes []*IssueNode, targetID string) error {
	if targetID == "" {
		doc.RootNodes = append(append([]*IssueNode{}, nodes...), doc.RootNodes...)
		return nil
	}
	target := FindNode(doc.RootNodes, targetID)
	if target == nil {
		return fmt.Errorf("target %s: %w", targetID, ErrNotFound)
	}
	target.Children = append(append([]*IssueNode{}, nodes...), target.Children...)
	return nil
}

// persist writes the document and fires the cross-view refresh. On write
// failure the mutated in-memory copy is simply dropped; the next read starts
// from the last persisted state, so the system never believes a mutation
// succeeded when it did not.
func (e *Engine) persist(doc *TreeDocument) error {
	if err := e.store.Write(doc); err != nil {
		return fmt.Errorf("persist issue tree: %w", err)
	}
	if e.notifier != nil {
		e.notifier.NotifyRefresh()
	}
	return nil
}
