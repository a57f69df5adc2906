package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
)

func NewRevealCmd(svc **service.Service) *cobra.Command {
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "reveal <issue>",
		Short: "Show where an issue lives in the tree",
		Long: `Print the ancestor chain of an issue, from the top level down.

If the issue is focused, its first focused occurrence is shown
instead of its canonical position.

Examples:
  im reveal a1b2c3
  im reveal notes/plan.md --path`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			chain, err := s.Reveal(args[0])
			if err != nil {
				return err
			}

			if pathOnly {
				fmt.Println(chain[len(chain)-1].FilePath)
				return nil
			}

			title := s.TitleFunc(cmd.Context())
			parts := make([]string, 0, len(chain))
			for _, n := range chain {
				parts = append(parts, title(n.FilePath))
			}
			fmt.Println(strings.Join(parts, " > "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pathOnly, "path", false, "Print only the issue's file path")
	cmd.ValidArgsFunction = issueRefCompletion(svc)

	return cmd
}
