package views

import (
	"sync"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

// Focused is the reprojected focused view: each focus marker becomes a shadow
// subtree whose rows carry namespaced occurrence IDs, so the same canonical
// node can appear under several markers without identity collisions.
type Focused struct {
	root  string
	focus *issuetree.FocusStore
	title issuetree.TitleFunc

	mu   sync.Mutex
	rows []Row
}

// NewFocused creates the focused projection.
func NewFocused(root string, focus *issuetree.FocusStore, title issuetree.TitleFunc) *Focused {
	return &Focused{root: root, focus: focus, title: title}
}

func (v *Focused) Name() string { return "focused" }

func (v *Focused) Refresh(doc *issuetree.TreeDocument) {
	shadow := issuetree.Project(doc, v.focus.Read())
	rows := forestRows(shadow, v.root, v.title)
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

func (v *Focused) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Row{}, v.rows...)
}
