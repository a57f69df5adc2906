package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wedaren/issue-manager/pkg/service"
	"github.com/wedaren/issue-manager/pkg/watcher"
)

func NewWatchCmd(svc **service.Service) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the note root and keep views fresh",
		Long: `Watch the note root for file changes and refresh the registered
views when anything relevant changes. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			w, err := watcher.New(s.Config.Root,
				watcher.WithOnChange(func() {
					s.Views.NotifyRefresh()
					fmt.Printf("[%s] refreshed\n", time.Now().Format("15:04:05"))
				}),
				watcher.WithSuppress(func() bool {
					// Our own tree writes come back as fsnotify events;
					// the views were already refreshed when we wrote.
					return s.Store.WroteWithin(time.Second) || s.Focus.WroteWithin(time.Second)
				}),
				watcher.WithDebounce(debounce),
			)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", s.Config.Root)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounceDuration, "Delay before reacting to a burst of changes")

	return cmd
}
