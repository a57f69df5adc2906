// Package picker is a standalone target chooser: a small bubbletea program
// that blocks until the user picks a destination or backs out.
package picker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wedaren/issue-manager/pkg/issuetree"
)

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))

// Picker implements issuetree.TargetPicker over a terminal list.
type Picker struct {
	// Title heads the list, e.g. "Move 2 issue(s) to...".
	Title string
}

type item struct {
	id    string
	label string
}

func (i item) FilterValue() string { return i.label }

type delegate struct{}

func (d delegate) Height() int                             { return 1 }
func (d delegate) Spacing() int                            { return 0 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, cursorStyle.Render("▶ "+it.label))
		return
	}
	fmt.Fprint(w, "  "+it.label)
}

type model struct {
	list   list.Model
	picked string
	ok     bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			if m.list.FilterState() == list.Filtering {
				break
			}
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.picked = it.id
				m.ok = true
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string { return "\n" + m.list.View() }

// PickTarget shows the candidates (top level first) and returns the chosen
// target id. ok is false when the user backed out.
func (p *Picker) PickTarget(ctx context.Context, candidates []issuetree.FlattenedNode) (string, bool, error) {
	items := make([]list.Item, 0, len(candidates)+1)
	items = append(items, item{id: "", label: "(top level)"})
	for _, c := range candidates {
		items = append(items, item{
			id:    c.Node.ID,
			label: strings.Join(append(c.Breadcrumb, c.Title), " > "),
		})
	}

	l := list.New(items, delegate{}, 76, 18)
	l.Title = p.Title
	if l.Title == "" {
		l.Title = "Select target..."
	}
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	prog := tea.NewProgram(model{list: l}, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return "", false, fmt.Errorf("run picker: %w", err)
	}
	m, _ := final.(model)
	return m.picked, m.ok, nil
}
