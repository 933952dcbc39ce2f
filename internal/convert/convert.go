// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Scrapbox page text into Re:VIEW markup and writes
// converted pages to disk.
//
// Convert is a pure function of its input and options; the only side effect
// is diagnostics sent to the configured Logger. Calls are independent and may
// run in parallel.
package convert

import (
	"github.com/pdiddy/sb2review/internal/review"
	"github.com/pdiddy/sb2review/internal/scrapbox"
	"github.com/pdiddy/sb2review/pkg/types"
)

// Options configures a conversion.
type Options struct {
	// BaseHeadingLevel is the number of bold markers mapped to the top
	// heading level. Zero selects types.DefaultBaseHeadingLevel.
	BaseHeadingLevel int

	// HasTitle tells the parser whether the first line is the page title.
	// Nil means true.
	HasTitle *bool

	// Logger receives diagnostics. Nil logs through slog.Default().
	Logger review.Logger
}

// OptionsFromConfig builds Options from the converter section of the
// configuration file.
func OptionsFromConfig(cfg types.ConverterConfig, log review.Logger) Options {
	return Options{BaseHeadingLevel: cfg.BaseHeadingLevel, HasTitle: cfg.HasTitle, Logger: log}
}

func (o Options) config() types.ConverterConfig {
	return types.ConverterConfig{BaseHeadingLevel: o.BaseHeadingLevel, HasTitle: o.HasTitle}
}

// Convert parses src as a Scrapbox page and renders it as Re:VIEW text.
// A trailing newline is appended to src before parsing so that a construct
// open on the last line is always closed.
func Convert(src string, opts Options) string {
	cfg := opts.config()
	blocks := scrapbox.Parse(src+"\n", scrapbox.Options{HasTitle: cfg.Titled()})
	return review.Render(blocks, review.Options{
		BaseHeadingLevel: cfg.HeadingLevel(),
		Logger:           opts.Logger,
	})
}

// ConvertWithDiagnostics is Convert that also returns every diagnostic in
// emission order. Diagnostics are still forwarded to opts.Logger when it is
// set.
func ConvertWithDiagnostics(src string, opts Options) (string, []types.Diagnostic) {
	c := review.NewCollector(opts.Logger)
	opts.Logger = c
	out := Convert(src, opts)
	return out, c.Diagnostics()
}
