// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sb2review/internal/book"
	"github.com/pdiddy/sb2review/internal/convert"
	"github.com/pdiddy/sb2review/internal/logging"
	"github.com/pdiddy/sb2review/internal/store"
	"github.com/pdiddy/sb2review/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert Scrapbox pages to Re:VIEW",
	Long: `Convert reads Scrapbox page sources and writes Re:VIEW markup.

With no arguments the page is read from stdin and the result written to
stdout. With file arguments each page is written to <output-dir>/<name>.re.
When a history database is configured (--db), pages whose source and
options are unchanged since the last run are skipped. Use --book to add new
chapter files to catalog.yml in the output directory afterwards.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts := converterOptions(cmd)

	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), convert.Convert(string(data), opts))
		return err
	}

	ctx := cmd.Context()
	outDir := stringSetting(cmd, "output-dir", "book.dir")

	var hist convert.Recorder
	if dbPath := stringSetting(cmd, "db", "store.path"); dbPath != "" {
		st, err := store.Open(types.StoreConfig{Path: dbPath})
		if err != nil {
			return err
		}
		defer st.Close()
		run, err := st.StartRun(ctx)
		if err != nil {
			return err
		}
		logging.Get().Debug("conversion run started", "run", run, "db", dbPath)
		hist = st
	}

	result := convert.ConvertPaths(ctx, convert.FileConverter{Options: opts}, args, outDir, hist, cmd.OutOrStdout())

	if boolSetting(cmd, "book", "book.sync") {
		added, err := book.Sync(outDir)
		if err != nil {
			return err
		}
		for _, name := range added {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog: added %s\n", name)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d page(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	addConverterFlags(convertCmd)
	convertCmd.Flags().String("output-dir", ".", "directory for converted .re files")
	convertCmd.Flags().String("db", "", "conversion history database for incremental runs")
	convertCmd.Flags().Bool("book", false, "sync catalog.yml in the output directory after converting")

	rootCmd.AddCommand(convertCmd)
}
