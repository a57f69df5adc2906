package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/cmd"
	"github.com/wedaren/issue-manager/cmd/config"
	"github.com/wedaren/issue-manager/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := &cobra.Command{
		Use:   "im",
		Short: "A tree-structured issue tracker over plain note files",
		Long: `im organizes markdown note files into an issue tree.

The tree lives in .issues/tree.json under the note root; the notes
themselves stay ordinary files you can edit with anything.`,
		SilenceUsage: true,
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// Runs once before any subcommand.
		config.InitConfig()
		logger := config.NewLogger()

		var err error
		svc, err = config.InitService(logger)
		if err != nil {
			return fmt.Errorf("initialize service: %w", err)
		}
		return nil
	}
	rootCmd.PersistentPostRunE = func(c *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		// Flushes any pending expand/collapse writes.
		return svc.Close()
	}

	rootCmd.AddCommand(cmd.NewTreeCmd(&svc))
	rootCmd.AddCommand(cmd.NewAddCmd(&svc))
	rootCmd.AddCommand(cmd.NewMoveCmd(&svc))
	rootCmd.AddCommand(cmd.NewAttachCmd(&svc))
	rootCmd.AddCommand(cmd.NewDetachCmd(&svc))
	rootCmd.AddCommand(cmd.NewFocusCmd(&svc))
	rootCmd.AddCommand(cmd.NewRevealCmd(&svc))
	rootCmd.AddCommand(cmd.NewWatchCmd(&svc))
	rootCmd.AddCommand(cmd.NewTuiCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
