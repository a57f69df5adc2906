package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/issuetree"
	"github.com/wedaren/issue-manager/pkg/service"
)

func NewAttachCmd(svc **service.Service) *cobra.Command {
	var (
		targetRef   string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:     "attach <issue>...",
		Short:   "Copy issues under another parent",
		Aliases: []string{"copy"},
		Long: `Copy one or more issue subtrees under a new parent.

Unlike move, the originals stay where they are; the copies get fresh
ids so the two lineages stay independent.

Examples:
  im attach a1b2c3 --to d4e5f6
  im attach a1b2c3 b7c8d9 --to root`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			ids, err := resolveRefs(s, args)
			if err != nil {
				return err
			}
			targetID, ok, err := chooseTarget(cmd, s, ids, targetRef, interactive,
				fmt.Sprintf("Copy %d issue(s) to...", len(ids)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}

			if err := s.Engine.AttachTo(ids, targetID); err != nil {
				if errors.Is(err, issuetree.ErrIllegalTarget) {
					return fmt.Errorf("cannot attach an issue inside its own subtree")
				}
				return err
			}
			fmt.Printf("Attached %d issue(s)\n", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetRef, "to", "t", "", "New parent (id, prefix, or file path); omit for top level")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the target from a list")
	cmd.ValidArgsFunction = issueRefCompletion(svc)
	_ = cmd.RegisterFlagCompletionFunc("to", issueRefCompletion(svc))

	return cmd
}
