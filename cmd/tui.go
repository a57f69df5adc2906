package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/internal/tui/browser"
	"github.com/wedaren/issue-manager/pkg/service"
)

func NewTuiCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Short:   "Browse and rearrange the issue tree interactively",
		Aliases: []string{"browse"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			p := tea.NewProgram(browser.New(s), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
}
