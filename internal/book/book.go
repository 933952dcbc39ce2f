// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package book maintains a Re:VIEW book project: the catalog.yml that orders
// chapter files and the naming of chapter files written by conversion.
package book

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/unicode/norm"
)

const (
	catalogFile = "catalog.yml"
	chapterExt  = ".re"
)

// Catalog is the content of a Re:VIEW catalog.yml. Part entries (nested
// maps under CHAPS) are not supported.
type Catalog struct {
	Predef   []string `yaml:"PREDEF,omitempty"`
	Chaps    []string `yaml:"CHAPS"`
	Appendix []string `yaml:"APPENDIX,omitempty"`
	Postdef  []string `yaml:"POSTDEF,omitempty"`
}

// Files returns every listed file in book order.
func (c *Catalog) Files() []string {
	var out []string
	for _, section := range [][]string{c.Predef, c.Chaps, c.Appendix, c.Postdef} {
		out = append(out, section...)
	}
	return out
}

// Contains reports whether name is listed in any section.
func (c *Catalog) Contains(name string) bool {
	return slices.Contains(c.Files(), name)
}

// LoadCatalog reads catalog.yml from a book directory. A missing file
// returns an error wrapping os.ErrNotExist.
func LoadCatalog(dir string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Join(dir, catalogFile))
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &cat, nil
}

// WriteCatalog writes cat to catalog.yml in dir.
func WriteCatalog(dir string, cat *Catalog) error {
	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating book directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, catalogFile), data, 0o644)
}

// ChapterFiles returns the sorted names of the *.re files in dir.
func ChapterFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading book directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != chapterExt {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Sync brings catalog.yml in line with the chapter files in dir: entries
// whose file is gone are dropped and unlisted files are appended to CHAPS
// in name order. A missing catalog is created. It returns the added names.
func Sync(dir string) ([]string, error) {
	cat, err := LoadCatalog(dir)
	if errors.Is(err, os.ErrNotExist) {
		cat = &Catalog{}
	} else if err != nil {
		return nil, err
	}

	files, err := ChapterFiles(dir)
	if err != nil {
		return nil, err
	}

	exists := func(name string) bool { return slices.Contains(files, name) }
	cat.Predef = slices.DeleteFunc(cat.Predef, func(n string) bool { return !exists(n) })
	cat.Chaps = slices.DeleteFunc(cat.Chaps, func(n string) bool { return !exists(n) })
	cat.Appendix = slices.DeleteFunc(cat.Appendix, func(n string) bool { return !exists(n) })
	cat.Postdef = slices.DeleteFunc(cat.Postdef, func(n string) bool { return !exists(n) })

	var added []string
	for _, f := range files {
		if !cat.Contains(f) {
			cat.Chaps = append(cat.Chaps, f)
			added = append(added, f)
		}
	}

	if err := WriteCatalog(dir, cat); err != nil {
		return nil, err
	}
	return added, nil
}

// reserved holds characters that cannot appear in a chapter file name.
const reserved = `/\:*?"<>|#`

// ChapterFileName turns a page title into a chapter file name.
func ChapterFileName(title string) string {
	return SafeName(title) + chapterExt
}

// SafeName turns a page title into a file base name. The title is
// NFC-normalized; whitespace, control and reserved characters become "_".
func SafeName(title string) string {
	title = norm.NFC.String(strings.TrimSpace(title))
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(reserved, r) {
			return '_'
		}
		return r
	}, title)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "untitled"
	}
	return name
}
