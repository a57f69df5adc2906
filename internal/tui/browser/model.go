// Package browser is the interactive issue tree browser.
package browser

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wedaren/issue-manager/pkg/issuetree"
	"github.com/wedaren/issue-manager/pkg/service"
	"github.com/wedaren/issue-manager/pkg/views"
)

type uiMode int

const (
	modeBrowse uiMode = iota
	modePickTarget
	modeTitleInput
	modeConfirmDetach
)

// pendingOp is the mutation waiting on a picked target.
type pendingOp int

const (
	opNone pendingOp = iota
	opMove
	opAttach
)

// Model is the main model for the issue browser TUI.
type Model struct {
	svc *service.Service

	viewName string // "overview" or "focused"
	rows     []views.Row
	visible  []int // indices into rows after collapse filtering

	cursor       int
	scrollOffset int
	width        int
	height       int

	keys    KeyMap
	help    help.Model
	lastKey string // for detecting 'gg'

	// Collapse overrides applied on top of the persisted expanded state,
	// so folds feel instant while the flush is still pending.
	expandOverride map[string]bool

	// Selected occurrence IDs.
	selected map[string]struct{}

	mode    uiMode
	op      pendingOp
	opIDs   []string // selection captured when the picker opened
	picker  list.Model
	titleIn textinput.Model
	subOf   string // parent ID for a new sub-issue, "" for top level

	detachID    string
	detachCount int

	status string
	err    error
}

// targetItem adapts a flattened candidate to the bubbles list.
type targetItem struct {
	id    string
	label string
}

func (t targetItem) FilterValue() string { return t.label }

type targetDelegate struct{}

func (d targetDelegate) Height() int                             { return 1 }
func (d targetDelegate) Spacing() int                            { return 0 }
func (d targetDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d targetDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	t, ok := item.(targetItem)
	if !ok {
		return
	}
	line := "  " + t.label
	if index == m.Index() {
		line = cursorStyle.Render("▶ " + t.label)
	}
	fmt.Fprint(w, line)
}

// New creates the browser model.
func New(svc *service.Service) Model {
	ti := textinput.New()
	ti.Placeholder = "Issue title..."
	ti.CharLimit = 200
	ti.Width = 60

	m := Model{
		svc:            svc,
		viewName:       "overview",
		keys:           keys,
		help:           help.New(),
		expandOverride: make(map[string]bool),
		selected:       make(map[string]struct{}),
		titleIn:        ti,
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload recomputes the rows from the active view and re-applies the
// collapse filter. The cursor is clamped, not reset.
func (m *Model) reload() {
	v := m.svc.Views.View(m.viewName)
	if v == nil {
		m.rows = nil
		m.visible = nil
		return
	}
	v.Refresh(m.svc.Store.Read())
	m.rows = v.Rows()
	m.rebuildVisible()
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// rebuildVisible hides every row beneath a collapsed ancestor.
func (m *Model) rebuildVisible() {
	m.visible = m.visible[:0]
	hideDeeper := -1 // depth of the nearest collapsed ancestor, -1 for none
	for i, row := range m.rows {
		if hideDeeper >= 0 {
			if row.Depth > hideDeeper {
				continue
			}
			hideDeeper = -1
		}
		m.visible = append(m.visible, i)
		if row.HasChildren && !m.isExpanded(row) {
			hideDeeper = row.Depth
		}
	}
}

func (m *Model) isExpanded(row views.Row) bool {
	if v, ok := m.expandOverride[issuetree.StripFocusedID(row.ID)]; ok {
		return v
	}
	return row.Expanded
}

// currentRow returns the row under the cursor.
func (m *Model) currentRow() (views.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return views.Row{}, false
	}
	return m.rows[m.visible[m.cursor]], true
}

// selection returns the occurrence IDs to operate on: the marked set, or
// the cursor row when nothing is marked.
func (m *Model) selection() []string {
	if len(m.selected) > 0 {
		ids := make([]string, 0, len(m.selected))
		for _, idx := range m.visible {
			if _, ok := m.selected[m.rows[idx].ID]; ok {
				ids = append(ids, m.rows[idx].ID)
			}
		}
		// Marked rows that scrolled out of the visible set still count.
		if len(ids) < len(m.selected) {
			ids = ids[:0]
			for id := range m.selected {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if row, ok := m.currentRow(); ok {
		return []string{row.ID}
	}
	return nil
}

func (m *Model) getViewportHeight() int {
	h := m.height - 6 // header, spacing, status, help
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) clampScroll() {
	vh := m.getViewportHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+vh {
		m.scrollOffset = m.cursor - vh + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}
