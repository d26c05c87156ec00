package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecourts-tools/ecourts-console/internal/api"
	"github.com/ecourts-tools/ecourts-console/internal/caselist"
	"github.com/ecourts-tools/ecourts-console/internal/filter"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [tab]",
	Short: "Export cases to a text file",
	Long: `Export cases from the server to a plain text report. The optional
tab argument restricts the export to one view, same as the list command.

Examples:
  # Export everything to cases_export.txt
  ecourts-console export

  # Export reviewed cases to a named file
  ecourts-console export reviewed --output reviewed.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default cases_export_<date>.txt)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	client, err := api.NewClient(config.Server.URL, log.New(os.Stderr, "[api] ", log.LstdFlags))
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	cases, err := client.Cases(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cases: %w", err)
	}

	now := time.Now()
	records := filter.Apply(caselist.BuildIndex(cases), tab, filter.State{}, now)

	outPath := exportOutput
	if outPath == "" {
		outPath = fmt.Sprintf("cases_export_%s.txt", now.Format("2006-01-02"))
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	report := renderExport(records, tab, now)
	if err := os.WriteFile(outPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("Exported %d cases to %s\n", len(records), outPath)
	return nil
}

func renderExport(records []caselist.Record, tab caselist.Tab, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "eCourts case export (%s)\n", tab)
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Cases: %d\n", len(records))
	b.WriteString(strings.Repeat("=", 70) + "\n\n")

	for i, r := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, partiesLine(r))
		fmt.Fprintf(&b, "   CNR: %s\n", r.CINO)
		if r.CaseNumber != "" {
			fmt.Fprintf(&b, "   Case No: %s\n", r.CaseNumber)
		}
		if r.CaseType != "" {
			fmt.Fprintf(&b, "   Type: %s\n", r.CaseType)
		}
		if r.Establishment != "" {
			fmt.Fprintf(&b, "   Court: %s", r.Establishment)
			if r.Court != "" {
				fmt.Fprintf(&b, " (%s)", r.Court)
			}
			b.WriteString("\n")
		}
		if r.HasHearingDate() {
			fmt.Fprintf(&b, "   Next hearing: %s\n", caselist.FormatDate(r.NextHearingDate))
		}
		if !r.DecisionDate.IsZero() {
			fmt.Fprintf(&b, "   Decided: %s\n", caselist.FormatDate(r.DecisionDate))
		}
		if r.Purpose != "" {
			fmt.Fprintf(&b, "   Purpose: %s\n", r.Purpose)
		}
		if r.UserSide != "" {
			fmt.Fprintf(&b, "   Our side: %s\n", r.UserSide)
		}
		if r.Notes != "" {
			fmt.Fprintf(&b, "   Notes: %s\n", r.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}
