package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/internal/tui/picker"
	"github.com/wedaren/issue-manager/pkg/issuetree"
	"github.com/wedaren/issue-manager/pkg/service"
)

func NewMoveCmd(svc **service.Service) *cobra.Command {
	var (
		targetRef   string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "move <issue>...",
		Short: "Move issues under a new parent",
		Long: `Move one or more issues (with their subtrees) under a new parent.

The target may be an issue id, an id prefix, or a file path. Omitting
--to, or passing --to root, moves the selection to the top level.

Examples:
  im move a1b2c3 --to d4e5f6     # Re-parent one issue
  im move a1b2c3 b7c8d9          # Move two issues to the top level
  im move a1b2c3 --to notes/plan.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			ids, err := resolveRefs(s, args)
			if err != nil {
				return err
			}
			targetID, ok, err := chooseTarget(cmd, s, ids, targetRef, interactive,
				fmt.Sprintf("Move %d issue(s) to...", len(ids)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}

			if err := s.Engine.MoveTo(ids, targetID); err != nil {
				if errors.Is(err, issuetree.ErrIllegalTarget) {
					return fmt.Errorf("cannot move an issue into its own subtree")
				}
				return err
			}
			fmt.Printf("Moved %d issue(s)\n", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetRef, "to", "t", "", "New parent (id, prefix, or file path); omit for top level")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the target from a list")
	cmd.ValidArgsFunction = issueRefCompletion(svc)
	_ = cmd.RegisterFlagCompletionFunc("to", issueRefCompletion(svc))

	return cmd
}

func resolveRefs(s *service.Service, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := s.ResolveID(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// chooseTarget resolves the destination: interactively when asked, else from
// the flag, where "" and "root" mean the top level. ok is false only when
// the user backed out of the picker.
func chooseTarget(cmd *cobra.Command, s *service.Service, ids []string, ref string, interactive bool, title string) (string, bool, error) {
	if interactive {
		p := &picker.Picker{Title: title}
		return p.PickTarget(cmd.Context(), s.Targets(cmd.Context(), ids))
	}
	if ref == "" || ref == "root" {
		return "", true, nil
	}
	id, err := s.ResolveID(ref)
	return id, err == nil, err
}
