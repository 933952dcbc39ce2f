// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultBaseHeadingLevel is the number of bold markers that maps to the
// top (==) heading level when no other value is configured.
const DefaultBaseHeadingLevel = 3

// ConverterConfig holds settings for Scrapbox to Re:VIEW conversion.
type ConverterConfig struct {
	// BaseHeadingLevel controls how many leading bold-marker repetitions map
	// to the top heading level (default 3).
	BaseHeadingLevel int `json:"base_heading_level" yaml:"base_heading_level"`

	// HasTitle tells the parser whether the first source line is the page
	// title. Nil means true.
	HasTitle *bool `json:"has_title,omitempty" yaml:"has_title,omitempty"`
}

// HeadingLevel returns the effective base heading level.
func (c ConverterConfig) HeadingLevel() int {
	if c.BaseHeadingLevel <= 0 {
		return DefaultBaseHeadingLevel
	}
	return c.BaseHeadingLevel
}

// Titled reports whether the first source line is treated as a title.
func (c ConverterConfig) Titled() bool {
	return c.HasTitle == nil || *c.HasTitle
}

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sb2review/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig holds settings for downloading pages from the Scrapbox API.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Scrapbox origin (default "https://scrapbox.io").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Project is the Scrapbox project name.
	Project string `json:"project" yaml:"project"`

	// SID is the connect.sid session cookie needed for private projects.
	SID string `json:"sid,omitempty" yaml:"sid,omitempty"`

	// PagesDir is where fetched page sources are written.
	PagesDir string `json:"pages_dir" yaml:"pages_dir"`
}

// BookConfig holds settings for the Re:VIEW book project.
type BookConfig struct {
	// Dir is the book directory containing catalog.yml and chapter files.
	Dir string `json:"dir" yaml:"dir"`
}

// StoreConfig holds settings for the conversion history database.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `json:"path" yaml:"path"`
}

// Config groups all sb2review settings as read from sb2review.yaml.
type Config struct {
	Converter ConverterConfig `json:"converter" yaml:"converter"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Book      BookConfig      `json:"book" yaml:"book"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
