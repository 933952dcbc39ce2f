// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sb2review/internal/book"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage the Re:VIEW book project",
}

var bookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync catalog.yml with the chapter files",
	Long: `Sync adds every .re file in the book directory that catalog.yml does not
list to CHAPS, and removes entries whose file no longer exists. A missing
catalog.yml is created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := stringSetting(cmd, "dir", "book.dir")
		added, err := book.Sync(dir)
		if err != nil {
			return err
		}
		for _, name := range added {
			fmt.Fprintf(cmd.OutOrStdout(), "added: %s\n", name)
		}
		if len(added) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "catalog.yml is up to date")
		}
		return nil
	},
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files in catalog.yml in book order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := book.LoadCatalog(stringSetting(cmd, "dir", "book.dir"))
		if err != nil {
			return err
		}
		for _, name := range cat.Files() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	bookCmd.PersistentFlags().String("dir", ".", "book directory containing catalog.yml")

	bookCmd.AddCommand(bookSyncCmd)
	bookCmd.AddCommand(bookListCmd)
	rootCmd.AddCommand(bookCmd)
}
