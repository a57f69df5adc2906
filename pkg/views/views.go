// Package views holds the read-side projections of the canonical issue tree.
// Every view recomputes from the canonical document on refresh; none keeps
// independently mutated state, so views can never drift apart.
package views

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

// Row is one displayable line of a view. ID is the per-occurrence identity:
// canonical for the overview, namespaced for focused occurrences.
type Row struct {
	ID          string
	Depth       int
	Title       string
	FilePath    string
	Missing     bool
	Expanded    bool
	HasChildren bool
}

// View is a projection that recomputes itself from the canonical document.
type View interface {
	Name() string
	Refresh(doc *issuetree.TreeDocument)
	Rows() []Row
}

// Registry fans the post-write refresh out to every registered view. It
// implements issuetree.Notifier.
type Registry struct {
	store *issuetree.Store
	log   *logrus.Logger

	mu    sync.Mutex
	views []View
}

// NewRegistry creates a registry reading from the given store.
func NewRegistry(store *issuetree.Store, log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{store: store, log: log}
}

// Register adds a view and primes it with the current document.
func (r *Registry) Register(v View) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
	v.Refresh(r.store.Read())
}

// NotifyRefresh reads the canonical document once and refreshes every view
// from it.
func (r *Registry) NotifyRefresh() {
	doc := r.store.Read()
	r.mu.Lock()
	views := append([]View{}, r.views...)
	r.mu.Unlock()
	for _, v := range views {
		v.Refresh(doc)
	}
}

// View returns the registered view with the given name, or nil.
func (r *Registry) View(name string) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.views {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

// Names lists the registered view names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.views))
	for _, v := range r.views {
		names = append(names, v.Name())
	}
	return names
}

// fileMissing reports whether the node's backing file no longer resolves.
// A dangling reference is not an error; the row just renders as a
// placeholder.
func fileMissing(root, relPath string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
	return err != nil
}

// forestRows flattens a forest into rows, resolving titles and flagging
// dangling file references.
func forestRows(roots []*issuetree.IssueNode, root string, title issuetree.TitleFunc) []Row {
	if title == nil {
		title = func(relPath string) string { return relPath }
	}
	var rows []Row
	var visit func(n *issuetree.IssueNode, depth int)
	visit = func(n *issuetree.IssueNode, depth int) {
		rows = append(rows, Row{
			ID:          n.ID,
			Depth:       depth,
			Title:       title(n.FilePath),
			FilePath:    n.FilePath,
			Missing:     fileMissing(root, n.FilePath),
			Expanded:    n.Expanded != nil && *n.Expanded,
			HasChildren: len(n.Children) > 0,
		})
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
	return rows
}
