package views

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

// PARA groups the tree's note files by their top-level directory, the way a
// projects/areas/resources/archive layout organizes a note root. Group labels
// are title-cased; files at the root fall into "Inbox".
type PARA struct {
	root  string
	title issuetree.TitleFunc

	mu   sync.Mutex
	rows []Row
}

// NewPARA creates the directory-grouped projection.
func NewPARA(root string, title issuetree.TitleFunc) *PARA {
	return &PARA{root: root, title: title}
}

func (v *PARA) Name() string { return "para" }

func (v *PARA) Refresh(doc *issuetree.TreeDocument) {
	title := v.title
	if title == nil {
		title = func(relPath string) string { return relPath }
	}

	groups := make(map[string][]Row)
	seen := make(map[string]struct{})
	issuetree.Walk(doc.RootNodes, func(n *issuetree.IssueNode) bool {
		if _, dup := seen[n.FilePath]; dup {
			return true
		}
		seen[n.FilePath] = struct{}{}

		groups[groupLabel(n.FilePath)] = append(groups[groupLabel(n.FilePath)], Row{
			ID:       n.ID,
			Depth:    1,
			Title:    title(n.FilePath),
			FilePath: n.FilePath,
			Missing:  fileMissing(v.root, n.FilePath),
		})
		return true
	})

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var rows []Row
	for _, label := range labels {
		rows = append(rows, Row{Title: label, HasChildren: true, Expanded: true})
		rows = append(rows, groups[label]...)
	}

	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

func (v *PARA) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Row{}, v.rows...)
}

var titleCaser = cases.Title(language.English)

func groupLabel(relPath string) string {
	parts := strings.Split(strings.TrimPrefix(relPath, "./"), "/")
	if len(parts) < 2 {
		return "Inbox"
	}
	return titleCaser.String(strings.ReplaceAll(parts[0], "-", " "))
}
