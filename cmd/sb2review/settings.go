// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sb2review/internal/convert"
	"github.com/pdiddy/sb2review/internal/logging"
	"github.com/pdiddy/sb2review/internal/review"
	"github.com/pdiddy/sb2review/pkg/types"
)

// Settings resolve in order: an explicitly set flag, the config key (file or
// SB2REVIEW_ env), then the flag default.

func stringSetting(cmd *cobra.Command, flag, key string) string {
	f := cmd.Flags().Lookup(flag)
	if f != nil && f.Changed {
		return f.Value.String()
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	if f != nil {
		return f.Value.String()
	}
	return ""
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

// converterOptions builds conversion options from the converter flags.
func converterOptions(cmd *cobra.Command) convert.Options {
	hasTitle := boolSetting(cmd, "has-title", "converter.has_title")
	cfg := types.ConverterConfig{
		BaseHeadingLevel: intSetting(cmd, "base-heading-level", "converter.base_heading_level"),
		HasTitle:         &hasTitle,
	}
	return convert.OptionsFromConfig(cfg, review.NewSlogLogger(logging.Get()))
}

// fetchConfig builds the Scrapbox client settings from the fetch flags.
func fetchConfig(cmd *cobra.Command) types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("fetch.timeout"),
			UserAgent:  viper.GetString("fetch.user_agent"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
		},
		BaseURL:  stringSetting(cmd, "base-url", "fetch.base_url"),
		Project:  stringSetting(cmd, "project", "fetch.project"),
		SID:      viper.GetString("fetch.sid"),
		PagesDir: stringSetting(cmd, "pages-dir", "fetch.pages_dir"),
	}
}

func addConverterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("base-heading-level", types.DefaultBaseHeadingLevel, "bold marker count that maps to the top heading level")
	cmd.Flags().Bool("has-title", true, "treat the first line of each page as its title")
}
