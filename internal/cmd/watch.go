package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyike/clipmind/internal/tui"
	"github.com/dyike/clipmind/pkg/pipeline"
	"github.com/spf13/cobra"
)

// watch 命令 - 监听剪贴板并持续捕获
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the clipboard and capture new content",
	Long:  "Poll the system clipboard, classify and index every new copy until interrupted",
	RunE:  runWatch,
}

var withTUI bool

func init() {
	watchCmd.Flags().BoolVar(&withTUI, "tui", false, "Run with interactive TUI")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	if withTUI {
		return tui.Run(cm)
	}

	events := cm.Subscribe()

	if err := cm.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	status, err := cm.Status()
	if err != nil {
		return err
	}
	fmt.Printf("Watching clipboard (%d items, db: %s). Press Ctrl+C to stop.\n",
		status.TotalItems, status.DBPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Println("\nStopping...")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			printEvent(ev)
		}
	}
}

func printEvent(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.EventCaptured:
		fmt.Printf("+ captured [%s] %s\n", ev.Item.Category, ev.Item.Title)
	case pipeline.EventGrouped:
		fmt.Printf("~ grouped %s -> collection %s (%.2f)\n",
			ev.Item.Title, ev.CollectionID, ev.Score)
	case pipeline.EventDropped:
		slog.Debug("capture dropped", "reason", ev.Reason)
	}
}
