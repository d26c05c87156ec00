package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/bus"
	"github.com/ecourts-tools/ecourts-console/internal/store"
	"github.com/ecourts-tools/ecourts-console/internal/ui"
)

var noCache bool

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the case review TUI",
	Long: `Open the interactive terminal interface: tabbed case views with
client-side filtering, bulk selection, notes editing and calendar actions.

The TUI talks to the eCourts backend configured via --server. When the
server is unreachable the last fetched snapshot is shown read-only from
the local cache.

Examples:
  # Browse against the default local server
  ecourts-console browse

  # Browse a remote server without the local cache
  ecourts-console browse --server https://cases.example.com --no-cache`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the local snapshot cache")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config, err := GetConfig()
	if err != nil {
		return err
	}

	if cols, rows := getTerminalSize(); cols > 0 && (cols < 100 || rows < 24) {
		fmt.Fprintf(os.Stderr, "Warning: terminal %dx%d is small; 100x24 or larger works best\n", cols, rows)
	}

	logger := log.New(os.Stderr, "[browse] ", log.LstdFlags)

	client, err := api.NewClient(config.Server.URL, log.New(os.Stderr, "[api] ", log.LstdFlags))
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	var cache *store.Store
	if !noCache {
		cache, err = store.NewStore(config.Cache.Path)
		if err != nil {
			// The cache is optional; browsing works without it.
			logger.Printf("Snapshot cache unavailable: %v", err)
		} else {
			defer cache.Close()
		}
	}

	refreshBus := bus.NewBus(config.Redis.URL, log.New(os.Stderr, "[bus] ", log.LstdFlags))
	defer refreshBus.Close()

	tui := ui.NewUI(ctx, client, cache, refreshBus, logger)
	tui.Notifier().SetMaxVisible(config.Notify.MaxVisible)
	tui.SetThemeName(config.UI.Theme)

	if err := tui.Start(ctx); err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
