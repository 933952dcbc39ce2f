// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert converts every page in pages/ into book/ incrementally and syncs
// book/catalog.yml.
func Convert() error {
	mg.Deps(Build)
	pages, err := filepath.Glob(filepath.Join("pages", "*.txt"))
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Println("[convert] No pages in pages/.")
		return nil
	}
	args := append([]string{"convert", "--output-dir", "book", "--db", ".sb2review/history.db", "--book"}, pages...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Report lists the diagnostics from the last conversions.
func Report() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "report", "--db", ".sb2review/history.db")
}
