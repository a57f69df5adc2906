package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.mode == modePickTarget {
			m.picker.SetSize(msg.Width-4, m.getViewportHeight())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modePickTarget:
			return m.updatePicker(msg)
		case modeTitleInput:
			return m.updateTitleInput(msg)
		case modeConfirmDetach:
			return m.updateConfirmDetach(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	// 'gg' sequence
	if m.lastKey == "g" && msg.String() == "g" {
		m.lastKey = ""
		m.cursor = 0
		m.clampScroll()
		return m, nil
	}
	m.lastKey = msg.String()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.getViewportHeight() / 2
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.getViewportHeight() / 2
		if m.cursor >= len(m.visible) {
			m.cursor = len(m.visible) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.GoToTop):
		// First 'g' of a possible 'gg'; wait for the second.
		return m, nil

	case key.Matches(msg, m.keys.GoToBottom):
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		return m.setExpanded(true), nil

	case key.Matches(msg, m.keys.Collapse):
		return m.setExpanded(false), nil

	case key.Matches(msg, m.keys.ToggleSelect):
		if row, ok := m.currentRow(); ok {
			if _, marked := m.selected[row.ID]; marked {
				delete(m.selected, row.ID)
			} else {
				m.selected[row.ID] = struct{}{}
			}
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.clampScroll()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		for _, idx := range m.visible {
			m.selected[m.rows[idx].ID] = struct{}{}
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectNone):
		m.selected = make(map[string]struct{})
		return m, nil

	case key.Matches(msg, m.keys.Move):
		return m.openPicker(opMove), nil

	case key.Matches(msg, m.keys.Attach):
		return m.openPicker(opAttach), nil

	case key.Matches(msg, m.keys.Detach):
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		m.detachID = issuetree.StripFocusedID(row.ID)
		if m.svc.Engine.HasChildren(m.detachID) {
			m.mode = modeConfirmDetach
			return m, nil
		}
		return m.doDetach(), nil

	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus(), nil

	case key.Matches(msg, m.keys.NewTop):
		m.subOf = ""
		m.mode = modeTitleInput
		m.titleIn.SetValue("")
		m.titleIn.Focus()
		return m, nil

	case key.Matches(msg, m.keys.NewSub):
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		m.subOf = issuetree.StripFocusedID(row.ID)
		m.mode = modeTitleInput
		m.titleIn.SetValue("")
		m.titleIn.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		return m, m.editCmd(row.FilePath)

	case key.Matches(msg, m.keys.Refresh):
		m.reload()
		m.status = "Refreshed"
		return m, nil

	case key.Matches(msg, m.keys.ToggleView):
		if m.viewName == "overview" {
			m.viewName = "focused"
		} else {
			m.viewName = "overview"
		}
		m.cursor = 0
		m.scrollOffset = 0
		m.selected = make(map[string]struct{})
		m.reload()
		return m, nil
	}

	return m, nil
}

// setExpanded records the fold through the coalescing synchronizer and
// applies it locally so the view reacts before the flush lands.
func (m Model) setExpanded(expanded bool) Model {
	row, ok := m.currentRow()
	if !ok || !row.HasChildren {
		return m
	}
	id := issuetree.StripFocusedID(row.ID)
	m.expandOverride[id] = expanded
	m.svc.Sync.Record(id, expanded)
	m.rebuildVisible()
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.clampScroll()
	return m
}

func (m Model) toggleFocus() Model {
	row, ok := m.currentRow()
	if !ok {
		return m
	}
	id := issuetree.StripFocusedID(row.ID)

	focused := false
	for _, fid := range m.svc.Focus.Read() {
		if fid == id {
			focused = true
			break
		}
	}

	var err error
	if focused {
		err = m.svc.Focus.Remove(id)
	} else {
		err = m.svc.Focus.Add(id)
	}
	if err != nil {
		m.err = err
		return m
	}
	m.svc.Views.NotifyRefresh()
	m.reload()
	if focused {
		m.status = "Unfocused " + row.Title
	} else {
		m.status = "Focused " + row.Title
	}
	return m
}

// openPicker captures the selection and lists the legal targets; the
// selection's own subtrees are already excluded.
func (m Model) openPicker(op pendingOp) Model {
	ids := m.selection()
	if len(ids) == 0 {
		return m
	}
	m.op = op
	m.opIDs = ids

	candidates := m.svc.Targets(context.Background(), ids)
	items := make([]list.Item, 0, len(candidates)+1)
	items = append(items, targetItem{id: "", label: "(top level)"})
	for _, c := range candidates {
		items = append(items, targetItem{
			id:    c.Node.ID,
			label: strings.Join(append(c.Breadcrumb, c.Title), " > "),
		})
	}

	p := list.New(items, targetDelegate{}, m.width-4, m.getViewportHeight())
	if op == opMove {
		p.Title = fmt.Sprintf("Move %d issue(s) to...", len(ids))
	} else {
		p.Title = fmt.Sprintf("Copy %d issue(s) to...", len(ids))
	}
	p.SetShowHelp(false)
	p.SetShowStatusBar(false)
	p.SetFilteringEnabled(true)
	m.picker = p
	m.mode = modePickTarget
	return m
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.picker.FilterState() == list.Filtering {
			break // let the list clear its own filter first
		}
		m.mode = modeBrowse
		m.op = opNone
		return m, nil
	case "enter":
		item, ok := m.picker.SelectedItem().(targetItem)
		if !ok {
			return m, nil
		}
		if q := m.picker.FilterValue(); q != "" {
			_ = m.svc.Session.AddSearch(q)
		}
		return m.applyPicked(item.id), nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) applyPicked(targetID string) Model {
	var err error
	switch m.op {
	case opMove:
		err = m.svc.Engine.MoveTo(m.opIDs, targetID)
	case opAttach:
		err = m.svc.Engine.AttachTo(m.opIDs, targetID)
	}
	m.mode = modeBrowse
	m.op = opNone

	if err != nil {
		if errors.Is(err, issuetree.ErrIllegalTarget) {
			m.err = errors.New("cannot place an issue inside its own subtree")
		} else {
			m.err = err
		}
		return m
	}
	m.selected = make(map[string]struct{})
	m.reload()
	m.status = "Done"
	return m
}

func (m Model) updateTitleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.titleIn.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.titleIn.Value())
		m.mode = modeBrowse
		m.titleIn.Blur()
		if title == "" {
			return m, nil
		}
		node, err := m.svc.CreateIssue(title, m.subOf)
		if err != nil {
			m.err = err
			return m, nil
		}
		if m.subOf != "" {
			m.expandOverride[m.subOf] = true
			m.svc.Sync.Record(m.subOf, true)
		}
		m.reload()
		m.status = "Created " + node.FilePath
		return m, nil
	}

	var cmd tea.Cmd
	m.titleIn, cmd = m.titleIn.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDetach(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.doDetach(), nil
	default:
		m.mode = modeBrowse
		m.detachID = ""
		return m, nil
	}
}

func (m Model) doDetach() Model {
	m.mode = modeBrowse
	removed, err := m.svc.Engine.Disassociate(m.detachID)
	m.detachID = ""
	if err != nil {
		m.err = err
		return m
	}
	m.selected = make(map[string]struct{})
	m.reload()
	m.status = fmt.Sprintf("Removed %d issue(s) from the tree (files kept)", removed)
	return m
}

// editCmd suspends the TUI while the editor runs.
func (m Model) editCmd(relPath string) tea.Cmd {
	cmd, err := m.svc.EditorCommand(relPath)
	if err != nil {
		return func() tea.Msg { return nil }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return nil })
}
