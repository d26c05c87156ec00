package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/store"
)

var (
	confirmPurge bool
	purgeCache   bool
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all cases and calendar events from the server",
	Long: `Delete every case and every synced calendar event from the server,
and optionally the local snapshot cache.

WARNING: This operation is irreversible and will permanently delete all data.

Examples:
  # Purge the server (requires typed confirmation)
  ecourts-console purge

  # Purge with automatic confirmation
  ecourts-console purge --yes

  # Also wipe the local snapshot cache
  ecourts-console purge --cache`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVarP(&confirmPurge, "yes", "y", false, "Automatically confirm purge operation")
	purgeCmd.Flags().BoolVar(&purgeCache, "cache", false, "Also delete the local snapshot cache")
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config, err := GetConfig()
	if err != nil {
		return err
	}

	var targets []string
	targets = append(targets, "all cases and calendar events on "+config.Server.URL)
	if purgeCache {
		targets = append(targets, "the local snapshot cache")
	}
	fmt.Printf("This will permanently delete: %s\n", strings.Join(targets, " and "))

	if !confirmPurge {
		fmt.Print("Type DELETE to continue: ")
		var response string
		fmt.Scanln(&response)
		if response != "DELETE" {
			fmt.Println("Purge operation cancelled.")
			return nil
		}
	}

	client, err := api.NewClient(config.Server.URL, log.New(os.Stderr, "[api] ", log.LstdFlags))
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if err := client.DeleteAllCasesAndCalendar(ctx, "DELETE"); err != nil {
		return fmt.Errorf("failed to purge server data: %w", err)
	}
	fmt.Println("Server data deleted.")

	if purgeCache {
		if err := wipeCache(config.Cache.Path); err != nil {
			fmt.Printf("Warning: Failed to wipe snapshot cache: %v\n", err)
		} else {
			fmt.Println("Snapshot cache wiped.")
		}
	}

	return nil
}

func wipeCache(path string) error {
	// Validate the path points at our cache before removing anything.
	cache, err := store.NewStore(path)
	if err != nil {
		return err
	}
	if err := cache.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
