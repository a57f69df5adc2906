package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	switch m.mode {
	case modePickTarget:
		return "\n" + m.picker.View()
	case modeTitleInput:
		prompt := "New issue"
		if m.subOf != "" {
			prompt = "New sub-issue"
		}
		return "\n" + lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(prompt),
			"",
			m.titleIn.View(),
			"",
			mutedStyle.Render("enter: create   esc: cancel"),
		)
	case modeConfirmDetach:
		return "\n" + lipgloss.JoinVertical(lipgloss.Left,
			m.renderTree(),
			"",
			infoStyle.Render("Issue has children; remove the whole subtree? [y/N]"),
		)
	}

	header := headerStyle.Render(fmt.Sprintf("Issues [%s]", m.viewName))
	if len(m.selected) > 0 {
		header += "  " + infoStyle.Render(fmt.Sprintf("(%d selected)", len(m.selected)))
	}

	status := ""
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	} else if m.status != "" {
		status = infoStyle.Render(m.status)
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.renderTree(),
		"",
		status,
		m.help.View(m.keys),
	)
}

func (m Model) renderTree() string {
	if len(m.visible) == 0 {
		return mutedStyle.Render("No issues. Press N to create one.")
	}

	var b strings.Builder

	vh := m.getViewportHeight()
	start := m.scrollOffset
	end := start + vh
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := start; i < end; i++ {
		row := m.rows[m.visible[i]]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("▶ ")
		}

		mark := "  "
		if _, ok := m.selected[row.ID]; ok {
			mark = selectedStyle.Render("● ")
		}

		fold := "  "
		if row.HasChildren {
			if m.isExpanded(row) {
				fold = "▼ "
			} else {
				fold = "▶ "
			}
		}

		title := row.Title
		if row.Missing {
			title = missingStyle.Render(title + " (missing)")
		}

		line := cursor + mark + strings.Repeat("  ", row.Depth) + fold + title
		if i == m.cursor {
			line = highlightStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.visible) > vh {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" (%d-%d of %d)", start+1, end, len(m.visible))))
	}

	return b.String()
}
