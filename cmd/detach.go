package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
)

func NewDetachCmd(svc **service.Service) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "detach <issue>",
		Short:   "Remove an issue and its subtree from the tree",
		Aliases: []string{"rm"},
		Long: `Remove an issue and its whole subtree from the tree.

The note files on disk are not touched; only the tree structure
changes. Asks for confirmation when the issue has children unless
--force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			id, err := s.ResolveID(args[0])
			if err != nil {
				return err
			}

			if !force && s.Engine.HasChildren(id) {
				fmt.Print("Issue has children; remove the whole subtree? [y/N] ")
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
					fmt.Println("Aborted.")
					return nil
				}
			}

			removed, err := s.Engine.Disassociate(id)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d issue(s) from the tree (files kept)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.ValidArgsFunction = issueRefCompletion(svc)

	return cmd
}
