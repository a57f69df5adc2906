package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
	"github.com/wedaren/issue-manager/pkg/views"
)

func NewTreeCmd(svc **service.Service) *cobra.Command {
	var (
		viewName   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "tree",
		Short:   "Print the issue tree",
		Aliases: []string{"ls", "list"},
		Long: `Print the issue tree for a given view.

Examples:
  im tree                  # Overview of the whole tree
  im tree --view focused   # Only the focused subtrees
  im tree --view recent    # Recently modified issues
  im tree --view para      # Issues grouped by top-level directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			v := s.Views.View(viewName)
			if v == nil {
				return fmt.Errorf("unknown view %q (available: %s)", viewName, strings.Join(s.Views.Names(), ", "))
			}
			v.Refresh(s.Store.Read())
			rows := v.Rows()

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(rows)
			}

			if len(rows) == 0 {
				fmt.Println("No issues found.")
				return nil
			}
			printRowsTable(rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&viewName, "view", "v", "overview", "View to print (overview, focused, recent, para)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func printRowsTable(rows []views.Row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "TITLE\tFILE\tID")
	for _, row := range rows {
		marker := ""
		if row.Missing {
			marker = " (missing)"
		}
		indent := strings.Repeat("  ", row.Depth)
		fmt.Fprintf(w, "%s%s%s\t%s\t%s\n", indent, row.Title, marker, row.FilePath, shortID(row.ID))
	}

	w.Flush()
}

// shortID keeps output readable; full IDs are available via --json.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 && len(id) > 8 {
		return id[:8]
	}
	return id
}
