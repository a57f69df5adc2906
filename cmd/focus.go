package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
)

func NewFocusCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Manage the focused issue list",
		Long: `Manage the list of focused issues.

Focused issues appear in the focused view (im tree --view focused),
each with its full subtree. The same issue can be focused more than
once.`,
	}

	cmd.AddCommand(newFocusAddCmd(svc))
	cmd.AddCommand(newFocusRemoveCmd(svc))
	cmd.AddCommand(newFocusListCmd(svc))

	return cmd
}

func newFocusAddCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:               "add <issue>",
		Short:             "Focus an issue",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: issueRefCompletion(svc),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			id, err := s.ResolveID(args[0])
			if err != nil {
				return err
			}
			if err := s.Focus.Add(id); err != nil {
				return err
			}
			s.Views.NotifyRefresh()
			fmt.Printf("Focused %s\n", shortID(id))
			return nil
		},
	}
}

func newFocusRemoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <issue>",
		Short:             "Unfocus an issue",
		Aliases:           []string{"rm"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: issueRefCompletion(svc),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			id, err := s.ResolveID(args[0])
			if err != nil {
				return err
			}
			if err := s.Focus.Remove(id); err != nil {
				return err
			}
			s.Views.NotifyRefresh()
			fmt.Printf("Unfocused %s\n", shortID(id))
			return nil
		},
	}
}

func newFocusListCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List focused issues",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			ids := s.Focus.Read()
			if len(ids) == 0 {
				fmt.Println("No focused issues.")
				return nil
			}

			title := s.TitleFunc(cmd.Context())
			for i, id := range ids {
				label := "(stale)"
				if chain, err := s.Reveal(id); err == nil && len(chain) > 0 {
					label = title(chain[len(chain)-1].FilePath)
				}
				fmt.Printf("%d. %s  %s\n", i+1, shortID(id), label)
			}
			return nil
		},
	}
}
