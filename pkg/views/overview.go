package views

import (
	"sync"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

// Overview is the canonical tree rendered as-is, one row per node with
// canonical IDs.
type Overview struct {
	root  string
	title issuetree.TitleFunc

	mu   sync.Mutex
	rows []Row
}

// NewOverview creates the overview projection for notes under root.
func NewOverview(root string, title issuetree.TitleFunc) *Overview {
	return &Overview{root: root, title: title}
}

func (v *Overview) Name() string { return "overview" }

func (v *Overview) Refresh(doc *issuetree.TreeDocument) {
	rows := forestRows(doc.RootNodes, v.root, v.title)
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

func (v *Overview) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Row{}, v.rows...)
}
