// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/pdiddy/sb2review/internal/store"
	"github.com/pdiddy/sb2review/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show diagnostics recorded by past conversions",
	Long: `Report lists the diagnostics stored in the conversion history database:
constructs that had no Re:VIEW equivalent and lossy fallbacks. Filter by
page, level or message text. Use --pages for a per-page status table and
--export to write the whole history to YAML (xz-compressed when the path
ends in .xz).`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	dbPath := stringSetting(cmd, "db", "store.path")
	st, err := store.Open(types.StoreConfig{Path: dbPath})
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := st.ExportYAML(ctx, path); err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported to %s\n", path)
		return nil
	}

	if pages, _ := cmd.Flags().GetBool("pages"); pages {
		recs, err := st.Pages(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return encodeJSON(w, recs)
		}
		writePages(w, recs)
		return nil
	}

	page, _ := cmd.Flags().GetString("page")
	level, _ := cmd.Flags().GetString("level")
	contains, _ := cmd.Flags().GetString("contains")
	limit, _ := cmd.Flags().GetInt("limit")
	if level != "" && level != string(types.LevelError) && level != string(types.LevelWarn) {
		return fmt.Errorf("unsupported level %q: use error or warn", level)
	}

	rows, err := st.Diagnostics(ctx, store.Filter{
		PageID:   page,
		Level:    types.DiagnosticLevel(level),
		Contains: contains,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return encodeJSON(w, rows)
	}
	writeDiagnostics(w, rows)
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const (
	pageWidth    = 24
	messageWidth = 72
)

// cell pads or truncates s to width terminal columns.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

func writeDiagnostics(w io.Writer, rows []store.DiagnosticRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No diagnostics found.")
		return
	}
	fmt.Fprintf(w, "%s  %-5s  %s\n", cell("Page", pageWidth), "Level", "Message")
	fmt.Fprintln(w, strings.Repeat("-", pageWidth+messageWidth+9))
	for _, r := range rows {
		msg := strings.ReplaceAll(r.Message, "\n", " ")
		fmt.Fprintf(w, "%s  %-5s  %s\n", cell(r.PageID, pageWidth), r.Level, runewidth.Truncate(msg, messageWidth, "..."))
	}
	fmt.Fprintf(w, "\n%d diagnostics\n", len(rows))
}

func writePages(w io.Writer, recs []types.ConversionRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return
	}
	fmt.Fprintf(w, "%s  %-9s  %6s  %8s  %s\n", cell("Page", pageWidth), "Status", "Errors", "Warnings", "Converted")
	fmt.Fprintln(w, strings.Repeat("-", pageWidth+52))
	for _, r := range recs {
		fmt.Fprintf(w, "%s  %-9s  %6d  %8d  %s\n",
			cell(r.PageID, pageWidth), r.Status, r.Errors, r.Warnings, r.ConvertedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "\n%d pages\n", len(recs))
}

func init() {
	reportCmd.Flags().String("db", store.DefaultPath, "conversion history database")
	reportCmd.Flags().String("page", "", "filter by page ID")
	reportCmd.Flags().String("level", "", "filter by level: error or warn")
	reportCmd.Flags().String("contains", "", "filter by message substring")
	reportCmd.Flags().Int("limit", 0, "maximum diagnostics to list (0 = default 100)")
	reportCmd.Flags().Bool("pages", false, "list per-page conversion status instead of diagnostics")
	reportCmd.Flags().Bool("json", false, "output results as JSON")
	reportCmd.Flags().String("export", "", "write the full history to a YAML file")

	rootCmd.AddCommand(reportCmd)
}
