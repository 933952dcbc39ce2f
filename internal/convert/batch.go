// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/sb2review/pkg/types"
)

// outputExt is the file extension of Re:VIEW chapter files.
const outputExt = ".re"

// Result is the outcome of converting one page.
type Result struct {
	Text        string
	Diagnostics []types.Diagnostic
}

// Counts returns the number of error and warning diagnostics.
func (r Result) Counts() (errs, warns int) {
	for _, d := range r.Diagnostics {
		switch d.Level {
		case types.LevelError:
			errs++
		case types.LevelWarn:
			warns++
		}
	}
	return errs, warns
}

// PageConverter converts one page source. Fingerprint identifies the input
// and options so an unchanged page can be skipped without converting it.
type PageConverter interface {
	Fingerprint(page types.Page) (string, error)
	ConvertPage(page types.Page) (Result, error)
}

// FileConverter reads page sources from page.SourcePath.
type FileConverter struct {
	Options Options
}

// Fingerprint hashes the page source together with the options that change
// the output.
func (f FileConverter) Fingerprint(page types.Page) (string, error) {
	data, err := os.ReadFile(page.SourcePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", page.SourcePath, err)
	}
	cfg := f.Options.config()
	h := blake3.New()
	fmt.Fprintf(h, "base=%d title=%t\n", cfg.HeadingLevel(), cfg.Titled())
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ConvertPage reads and converts the page source.
func (f FileConverter) ConvertPage(page types.Page) (Result, error) {
	data, err := os.ReadFile(page.SourcePath)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", page.SourcePath, err)
	}
	text, diags := ConvertWithDiagnostics(string(data), f.Options)
	return Result{Text: text, Diagnostics: diags}, nil
}

// Recorder keeps the conversion history used to skip unchanged pages.
// *store.Store implements it.
type Recorder interface {
	Last(ctx context.Context, pageID string) (types.ConversionRecord, bool, error)
	Record(ctx context.Context, rec types.ConversionRecord, diags []types.Diagnostic) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int // includes Partial
	Partial   int
	Skipped   int
	Failed    int
}

// Total returns the total number of pages processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns the chapter file written for page under outDir.
func OutputPath(outDir string, page types.Page) string {
	return filepath.Join(outDir, page.ID+outputExt)
}

// ConvertPage converts a single page and writes <outDir>/<page.ID>.re. With
// a non-nil hist it skips the page when the last recorded conversion has
// the same fingerprint and its output still exists; it records every
// conversion that produced output. A status line is written to w.
func ConvertPage(ctx context.Context, c PageConverter, page types.Page, outDir string, hist Recorder, w io.Writer) types.ConversionStatus {
	outPath := OutputPath(outDir, page)

	fp, err := c.Fingerprint(page)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", page.ID, err)
		return types.ConversionFailed
	}

	if hist != nil {
		last, ok, err := hist.Last(ctx, page.ID)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", page.ID, err)
			return types.ConversionFailed
		}
		if ok && last.Fingerprint == fp && fileExists(outPath) {
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", page.ID)
			return types.ConversionNone
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", page.ID, err)
		return types.ConversionFailed
	}

	res, err := c.ConvertPage(page)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", page.ID, err)
		return types.ConversionFailed
	}

	if err := os.WriteFile(outPath, []byte(addHeader(page, res.Text)), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", page.ID, err)
		return types.ConversionFailed
	}

	errs, warns := res.Counts()
	status := types.ConversionDone
	if errs > 0 {
		status = types.ConversionPartial
	}

	if hist != nil {
		rec := types.ConversionRecord{
			PageID:      page.ID,
			SourcePath:  page.SourcePath,
			OutputPath:  outPath,
			Fingerprint: fp,
			Status:      status,
			Errors:      errs,
			Warnings:    warns,
			ConvertedAt: time.Now().UTC(),
		}
		if err := hist.Record(ctx, rec, res.Diagnostics); err != nil {
			fmt.Fprintf(w, "failed:  %s (recording history: %v)\n", page.ID, err)
			return types.ConversionFailed
		}
	}

	if status == types.ConversionPartial {
		fmt.Fprintf(w, "partial: %s (%d errors, %d warnings)\n", page.ID, errs, warns)
	} else {
		fmt.Fprintf(w, "converted: %s\n", page.ID)
	}
	return status
}

// ConvertBatch processes pages in order, printing per-page status to w and
// returning a summary. A cancelled ctx stops the batch before the next page.
// A page whose ID was already used by an earlier page fails, since both
// would write the same output file and history row.
func ConvertBatch(ctx context.Context, c PageConverter, pages []types.Page, outDir string, hist Recorder, w io.Writer) BatchResult {
	var result BatchResult
	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", p.ID, ctx.Err())
			result.Failed++
			continue
		}
		if first, dup := seen[p.ID]; dup {
			fmt.Fprintf(w, "failed:  %s (duplicate page ID: %s and %s)\n", p.ID, first, p.SourcePath)
			result.Failed++
			continue
		}
		seen[p.ID] = p.SourcePath
		switch ConvertPage(ctx, c, p, outDir, hist, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionPartial:
			result.Converted++
			result.Partial++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted (%d partial), %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Partial, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertPaths builds Page records from source file paths and delegates to
// ConvertBatch.
func ConvertPaths(ctx context.Context, c PageConverter, paths []string, outDir string, hist Recorder, w io.Writer) BatchResult {
	pages := make([]types.Page, len(paths))
	for i, p := range paths {
		pages[i] = types.Page{ID: PageID(p), SourcePath: p}
	}
	return ConvertBatch(ctx, c, pages, outDir, hist, w)
}

// PageID derives a page ID from a source file name: the base name without
// extension, NFC-normalized so decomposed file names from macOS map to the
// same ID as their composed form.
func PageID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return norm.NFC.String(base)
}

// addHeader prepends a Re:VIEW comment naming the page source.
func addHeader(page types.Page, body string) string {
	var b strings.Builder
	b.WriteString("#@# source: " + page.SourcePath + "\n")
	if page.Title != "" {
		b.WriteString("#@# title: " + strconv.Quote(page.Title) + "\n")
	}
	b.WriteString(body)
	return b.String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
