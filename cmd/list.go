package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/caselist"
	"github.com/ecourts-tools/ecourts-console/internal/filter"
	"github.com/ecourts-tools/ecourts-console/internal/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [tab]",
	Short: "List cases in a simple text format",
	Long: `List cases from the server in a simple text format. This command
works in any terminal environment and provides an alternative to the TUI
when terminal capabilities are limited.

The optional tab argument selects a view: all, petitioner, respondent,
unassigned, upcoming, reviewed, changed. Default is all.

Examples:
  # List every case
  ecourts-console list

  # List reviewed cases matching a party name
  ecourts-console list reviewed --search "sharma vs patel"

  # List upcoming hearings through the end of September
  ecourts-console list upcoming --to 2025-09-30

  # List changed cases that already carry notes
  ecourts-console list --changed --has-notes

  # List from the local snapshot when the server is down
  ecourts-console list --cached`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listSearch        string
	listFrom          string
	listTo            string
	listPurpose       string
	listEstablishment string
	listHasNotes      bool
	listChanged       bool
	listCached        bool
	listLimit         int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by case number, CNR or party name")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Earliest next hearing date, e.g. 2025-09-01")
	listCmd.Flags().StringVar(&listTo, "to", "", "Latest next hearing date (inclusive), e.g. 2025-09-30")
	listCmd.Flags().StringVar(&listPurpose, "purpose", "", "Filter by hearing purpose (substring)")
	listCmd.Flags().StringVar(&listEstablishment, "establishment", "", "Filter by establishment (substring)")
	listCmd.Flags().BoolVar(&listHasNotes, "has-notes", false, "Only cases with saved notes")
	listCmd.Flags().BoolVar(&listChanged, "changed", false, "Only cases changed since last review")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "Read from the local snapshot instead of the server")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of cases to show (0 = all)")
}

// listFilterState assembles the filter state from the list flags.
func listFilterState() (filter.State, error) {
	state := filter.State{Query: listSearch}

	var err error
	if listFrom != "" {
		state.From, err = time.Parse("2006-01-02", listFrom)
		if err != nil {
			return filter.State{}, fmt.Errorf("invalid --from value: %w", err)
		}
	}
	if listTo != "" {
		state.To, err = time.Parse("2006-01-02", listTo)
		if err != nil {
			return filter.State{}, fmt.Errorf("invalid --to value: %w", err)
		}
	}

	state.Advanced.Purpose = listPurpose
	state.Advanced.Establishment = listEstablishment
	if listHasNotes {
		v := true
		state.Advanced.HasNotes = &v
	}
	if listChanged {
		v := true
		state.Advanced.Modified = &v
	}
	return state, nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config, err := GetConfig()
	if err != nil {
		return err
	}

	tab := caselist.TabAll
	if len(args) > 0 {
		tab, err = parseTab(args[0])
		if err != nil {
			return err
		}
	}

	state, err := listFilterState()
	if err != nil {
		return err
	}

	records, fetchedAt, err := fetchRecords(ctx, config)
	if err != nil {
		return err
	}

	visible := filter.Apply(records, tab, state, time.Now())
	if listLimit > 0 && len(visible) > listLimit {
		visible = visible[:listLimit]
	}

	if len(visible) == 0 {
		fmt.Println("No cases found.")
		return nil
	}

	fmt.Printf("Found %d cases", len(visible))
	if !fetchedAt.IsZero() {
		fmt.Printf(" (snapshot from %s)", fetchedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Print(":\n\n")

	for i, r := range visible {
		printRecord(i+1, r)
	}
	return nil
}

func parseTab(arg string) (caselist.Tab, error) {
	candidate := caselist.Tab(strings.ToLower(arg))
	for _, t := range caselist.Tabs {
		if t == candidate {
			return t, nil
		}
	}
	names := make([]string, len(caselist.Tabs))
	for i, t := range caselist.Tabs {
		names[i] = string(t)
	}
	return "", fmt.Errorf("unknown tab: %s (use one of %s)", arg, strings.Join(names, ", "))
}

// fetchRecords loads the case index from the server, or from the local
// snapshot when --cached is set.
func fetchRecords(ctx context.Context, config Config) ([]caselist.Record, time.Time, error) {
	if listCached {
		cache, err := store.NewStore(config.Cache.Path)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to open snapshot cache: %w", err)
		}
		defer cache.Close()

		cases, fetchedAt, err := cache.LoadSnapshot(ctx)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to load snapshot: %w", err)
		}
		return caselist.BuildIndex(cases), fetchedAt, nil
	}

	client, err := api.NewClient(config.Server.URL, log.New(os.Stderr, "[api] ", log.LstdFlags))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to create API client: %w", err)
	}
	cases, err := client.Cases(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to fetch cases: %w", err)
	}
	return caselist.BuildIndex(cases), time.Time{}, nil
}

func printRecord(n int, r caselist.Record) {
	fmt.Printf("%d. %s\n", n, partiesLine(r))
	fmt.Printf("   CNR: %s\n", r.CINO)
	if r.CaseNumber != "" {
		fmt.Printf("   Case No: %s\n", r.CaseNumber)
	}
	if r.Establishment != "" {
		fmt.Printf("   Court: %s\n", r.Establishment)
	}
	if r.HasHearingDate() {
		fmt.Printf("   Next hearing: %s\n", caselist.FormatDate(r.NextHearingDate))
	}
	if r.Purpose != "" {
		fmt.Printf("   Purpose: %s\n", r.Purpose)
	}
	var flags []string
	if r.Reviewed {
		flags = append(flags, "reviewed")
	}
	if r.Modified {
		flags = append(flags, "changed")
	}
	if r.Notes != "" {
		flags = append(flags, "notes")
	}
	if len(flags) > 0 {
		fmt.Printf("   Flags: %s\n", strings.Join(flags, ", "))
	}
	fmt.Println()
}

func partiesLine(r caselist.Record) string {
	pet := r.Petitioner
	if pet == "" {
		pet = "(unknown)"
	}
	res := r.Respondent
	if res == "" {
		res = "(unknown)"
	}
	return fmt.Sprintf("%s vs %s", pet, res)
}
