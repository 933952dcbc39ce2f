// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one page.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionPartial ConversionStatus = "partial"
	ConversionFailed  ConversionStatus = "failed"
)

// Page identifies one Scrapbox page source to convert.
type Page struct {
	// ID is the page slug used for output file names (e.g. "intro").
	ID string `json:"id" yaml:"id"`

	// Title is the Scrapbox page title, when known.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// SourcePath is the local file holding the page source text.
	SourcePath string `json:"source_path" yaml:"source_path"`
}

// ConversionRecord is the stored outcome of the most recent conversion of a
// page.
type ConversionRecord struct {
	PageID      string           `json:"page_id" yaml:"page_id"`
	RunID       string           `json:"run_id,omitempty" yaml:"run_id,omitempty"` // Conversion run that wrote the record
	SourcePath  string           `json:"source_path" yaml:"source_path"`
	OutputPath  string           `json:"output_path" yaml:"output_path"`
	Fingerprint string           `json:"fingerprint" yaml:"fingerprint"` // Hash of source text and converter options
	Status      ConversionStatus `json:"status" yaml:"status"`
	Errors      int              `json:"errors" yaml:"errors"`
	Warnings    int              `json:"warnings" yaml:"warnings"`
	ConvertedAt time.Time        `json:"converted_at" yaml:"converted_at"`
}
