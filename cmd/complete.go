package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
)

// issueRefCompletion offers note file paths for issue arguments; paths
// resolve to nodes the same way ids do.
func issueRefCompletion(svc **service.Service) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		s := *svc
		if s == nil {
			return nil, cobra.ShellCompDirectiveError
		}
		paths, err := s.Suggest(cmd.Context(), toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return paths, cobra.ShellCompDirectiveNoFileComp
	}
}
