package issuetree

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const focusedFileName = "focused.json"

// focusedFile is the persisted shape of the focus marker list.
type focusedFile struct {
	Version  string   `json:"version"`
	FocusIDs []string `json:"focusIds"`
}

// FocusStore persists the ordered list of focus markers (canonical IDs the
// user pinned to the focused view). It follows the same recovery and
// atomicity discipline as the tree store.
type FocusStore struct {
	path string
	log  *logrus.Logger

	mu        sync.Mutex
	lastWrite time.Time
}

// NewFocusStore creates a store persisting under <root>/.issues/focused.json.
func NewFocusStore(root string, log *logrus.Logger) *FocusStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FocusStore{
		path: filepath.Join(root, StoreDirName, focusedFileName),
		log:  log,
	}
}

// Read returns the ordered focus markers. Missing or corrupt state recovers
// to an empty list with a warning.
func (s *FocusStore) Read() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("read focus list %s: %v, starting empty", s.path, err)
		}
		return []string{}
	}
	var f focusedFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.log.Warnf("focus list %s is not valid JSON: %v, starting empty", s.path, err)
		return []string{}
	}
	if f.FocusIDs == nil {
		return []string{}
	}
	return f.FocusIDs
}

// Write persists the focus markers atomically.
func (s *FocusStore) Write(ids []string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(focusedFile{Version: SchemaVersion, FocusIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal focus list: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("replace focus list: %w", err)
	}

	s.mu.Lock()
	s.lastWrite = time.Now()
	s.mu.Unlock()
	return nil
}

// WroteWithin reports whether the store itself wrote within the window.
func (s *FocusStore) WroteWithin(window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastWrite.IsZero() && time.Since(s.lastWrite) < window
}

// Add appends a focus marker. Adding the same canonical ID again creates a
// second focused occurrence on purpose.
func (s *FocusStore) Add(id string) error {
	ids := append(s.Read(), StripFocusedID(id))
	return s.Write(ids)
}

// Remove drops the first marker matching the canonical ID.
func (s *FocusStore) Remove(id string) error {
	canonical := StripFocusedID(id)
	ids := s.Read()
	for i, v := range ids {
		if v == canonical {
			return s.Write(append(ids[:i], ids[i+1:]...))
		}
	}
	return nil
}

// Project derives the focused view: for each focus marker that still resolves
// in the canonical document, a shadow copy of its subtree in which every ID is
// rewritten through WithFocusedID with a salt unique to that occurrence. Two
// markers pointing at the same canonical subtree therefore never collide in
// the per-occurrence identity space. The projection is stateless and is
// recomputed from scratch on every call; markers whose node is gone are
// skipped.
func Project(doc *TreeDocument, focusIDs []string) []*IssueNode {
	shadow := []*IssueNode{}
	for i, id := range focusIDs {
		canonical := FindNode(doc.RootNodes, StripFocusedID(id))
		if canonical == nil {
			continue
		}
		salt := strconv.Itoa(i)
		clone := canonical.Clone()
		Walk([]*IssueNode{clone}, func(n *IssueNode) bool {
			n.ID = WithFocusedID(n.ID, salt)
			return true
		})
		shadow = append(shadow, clone)
	}
	return shadow
}

// FindFirstFocusedNodeByID scans the focused forest depth-first and returns
// the first occurrence of the canonical ID, along with its ancestor chain
// (outermost first, the occurrence itself last). Used to reveal a node that
// was just edited elsewhere.
func FindFirstFocusedNodeByID(doc *TreeDocument, focusIDs []string, canonicalID string) ([]*IssueNode, bool) {
	canonicalID = StripFocusedID(canonicalID)

	var chain []*IssueNode
	var search func(n *IssueNode, ancestors []*IssueNode) bool
	search = func(n *IssueNode, ancestors []*IssueNode) bool {
		path := append(append([]*IssueNode{}, ancestors...), n)
		if StripFocusedID(n.ID) == canonicalID {
			chain = path
			return true
		}
		for _, c := range n.Children {
			if search(c, path) {
				return true
			}
		}
		return false
	}

	for _, root := range Project(doc, focusIDs) {
		if search(root, nil) {
			return chain, true
		}
	}
	return nil, false
}
