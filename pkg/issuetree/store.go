package issuetree

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// SchemaVersion is written into every persisted document. Older or missing
// versions are accepted on read; unknown fields are defaulted, not rejected.
const SchemaVersion = "1.0"

// StoreDirName is the directory under the note root that holds persisted
// state.
const StoreDirName = ".issues"

const treeFileName = "tree.json"

// Store owns the on-disk tree document and the atomicity of its writes.
type Store struct {
	root string
	path string
	log  *logrus.Logger

	mu        sync.Mutex
	lastWrite time.Time
}

// NewStore creates a store persisting under <root>/.issues/tree.json.
func NewStore(root string, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		root: root,
		path: filepath.Join(root, StoreDirName, treeFileName),
		log:  log,
	}
}

// Root returns the configured note root.
func (s *Store) Root() string { return s.root }

// Path returns the location of the persisted document.
func (s *Store) Path() string { return s.path }

// Read loads the canonical document. A missing file yields an empty document;
// an unparsable one is recovered to an empty document with a warning. Read
// never fails: the previous persisted state (or an empty tree) is always a
// valid answer.
func (s *Store) Read() *TreeDocument {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("read issue tree %s: %v, starting empty", s.path, err)
		}
		return NewDocument()
	}

	var doc TreeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warnf("issue tree %s is not valid JSON: %v, starting empty", s.path, err)
		return NewDocument()
	}

	s.normalize(&doc)
	return &doc
}

// Write persists the document atomically: the new content is written to a
// temp file in the same directory and renamed over the old one, so a crash
// mid-write can never leave a half-written document behind.
func (s *Store) Write(doc *TreeDocument) error {
	if doc.Version == "" {
		doc.Version = SchemaVersion
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal issue tree: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("replace issue tree: %w", err)
	}

	s.mu.Lock()
	s.lastWrite = time.Now()
	s.mu.Unlock()

	return nil
}

// WroteWithin reports whether the store itself wrote the document within the
// given window. File watchers use this to tell the engine's own persists
// apart from external edits.
func (s *Store) WroteWithin(window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastWrite.IsZero() && time.Since(s.lastWrite) < window
}

// writeFileAtomic writes data to a temp file in the target's directory and
// renames it into place, so concurrent readers see either the old content or
// the new content, never a mix.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// normalize defaults missing fields, drops structurally unusable entries and
// recomputes derived state after a read.
func (s *Store) normalize(doc *TreeDocument) {
	if doc.Version == "" {
		doc.Version = SchemaVersion
	}
	if doc.RootNodes == nil {
		doc.RootNodes = []*IssueNode{}
	}
	doc.RootNodes = dropNilNodes(doc.RootNodes)

	// Hand-edited documents may lack IDs; assign rather than reject.
	Walk(doc.RootNodes, func(n *IssueNode) bool {
		if n.ID == "" {
			n.ID = NewNodeID()
		}
		return true
	})

	deriveResourceURIs(doc.RootNodes, s.root)
}

func dropNilNodes(nodes []*IssueNode) []*IssueNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n == nil {
			continue
		}
		n.Children = dropNilNodes(n.Children)
		out = append(out, n)
	}
	return out
}
