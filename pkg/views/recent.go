package views

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

// DefaultRecentLimit caps the recent view when no limit is configured.
const DefaultRecentLimit = 20

// Recent lists the distinct note files referenced by the tree, most recently
// modified first. Nodes sharing a file (attach copies) collapse into one row.
type Recent struct {
	root  string
	title issuetree.TitleFunc
	limit int

	mu   sync.Mutex
	rows []Row
}

// NewRecent creates the recent-files projection. limit <= 0 selects
// DefaultRecentLimit.
func NewRecent(root string, title issuetree.TitleFunc, limit int) *Recent {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Recent{root: root, title: title, limit: limit}
}

func (v *Recent) Name() string { return "recent" }

func (v *Recent) Refresh(doc *issuetree.TreeDocument) {
	title := v.title
	if title == nil {
		title = func(relPath string) string { return relPath }
	}

	type entry struct {
		row   Row
		mtime int64
	}
	seen := make(map[string]struct{})
	var entries []entry
	issuetree.Walk(doc.RootNodes, func(n *issuetree.IssueNode) bool {
		if _, dup := seen[n.FilePath]; dup {
			return true
		}
		seen[n.FilePath] = struct{}{}

		row := Row{
			ID:       n.ID,
			Title:    title(n.FilePath),
			FilePath: n.FilePath,
		}
		var mtime int64
		info, err := os.Stat(filepath.Join(v.root, filepath.FromSlash(n.FilePath)))
		if err != nil {
			row.Missing = true
		} else {
			mtime = info.ModTime().UnixNano()
		}
		entries = append(entries, entry{row: row, mtime: mtime})
		return true
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].mtime > entries[j].mtime
	})
	if len(entries) > v.limit {
		entries = entries[:v.limit]
	}

	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = e.row
	}

	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

func (v *Recent) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Row{}, v.rows...)
}
