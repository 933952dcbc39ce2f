// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sb2review/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [titles...]",
	Short: "Download page sources from a Scrapbox project",
	Long: `Fetch downloads the raw text of Scrapbox pages into the pages directory
as <title>.txt, ready for convert. Pass page titles as arguments or use
--all to download every page of the project.

Private projects need a session cookie, read from the fetch.sid config key
or the SB2REVIEW_SID environment variable.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig(cmd)
	if cfg.Project == "" {
		return errors.New("no project: set --project or fetch.project")
	}
	all, _ := cmd.Flags().GetBool("all")
	if len(args) == 0 && !all {
		return errors.New("no pages: pass page titles or --all")
	}

	ctx := cmd.Context()
	client := fetch.NewClient(cfg)

	titles := args
	if all {
		limit, _ := cmd.Flags().GetInt("limit")
		var err error
		titles, err = client.ListTitles(ctx, limit)
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	failed := 0
	for _, title := range titles {
		path, err := client.SavePage(ctx, cfg.PagesDir, title)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", title, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "fetched: %s -> %s\n", title, path)
	}
	fmt.Fprintf(w, "\nFetch summary: %d fetched, %d failed (total: %d)\n", len(titles)-failed, failed, len(titles))

	if failed > 0 {
		return fmt.Errorf("%d page(s) failed to download", failed)
	}
	return nil
}

func init() {
	fetchCmd.Flags().String("project", "", "Scrapbox project name")
	fetchCmd.Flags().String("base-url", fetch.DefaultBaseURL, "Scrapbox origin")
	fetchCmd.Flags().String("pages-dir", "pages", "directory for downloaded page sources")
	fetchCmd.Flags().Bool("all", false, "download every page of the project")
	fetchCmd.Flags().Int("limit", 0, "maximum pages to list with --all (0 = all)")

	rootCmd.AddCommand(fetchCmd)
}
