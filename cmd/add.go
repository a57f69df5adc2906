package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
)

func NewAddCmd(svc **service.Service) *cobra.Command {
	var (
		parentRef string
		adopt     bool
		noEdit    bool
	)

	cmd := &cobra.Command{
		Use:     "add <title>...",
		Short:   "Create a new issue",
		Aliases: []string{"new"},
		Long: `Create a new issue file and insert it into the tree.

Examples:
  im add Fix login timeout              # New top-level issue
  im add --parent a1b2c3 Flaky retry    # New child of an existing issue
  im add --adopt notes/scratch.md       # Track an existing file as an issue`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			parentID := ""
			if parentRef != "" {
				id, err := s.ResolveID(parentRef)
				if err != nil {
					return fmt.Errorf("resolve parent %q: %w", parentRef, err)
				}
				parentID = id
			}

			if adopt {
				if len(args) != 1 {
					return fmt.Errorf("--adopt takes exactly one file path")
				}
				node, err := s.AdoptFile(args[0], parentID)
				if err != nil {
					return err
				}
				fmt.Printf("Adopted %s (%s)\n", node.FilePath, shortID(node.ID))
				return nil
			}

			title := strings.Join(args, " ")
			node, err := s.CreateIssue(title, parentID)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", node.FilePath, shortID(node.ID))

			if !noEdit && s.Config.Editor != "" {
				return s.OpenInEditor(node.FilePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&parentRef, "parent", "p", "", "Parent issue (id, prefix, or file path)")
	cmd.Flags().BoolVar(&adopt, "adopt", false, "Adopt an existing file instead of creating one")
	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Do not open the new issue in the editor")
	_ = cmd.RegisterFlagCompletionFunc("parent", issueRefCompletion(svc))

	return cmd
}
