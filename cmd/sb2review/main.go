// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sb2review CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sb2review/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sb2review CLI.
var rootCmd = &cobra.Command{
	Use:   "sb2review",
	Short: "Convert Scrapbox pages to Re:VIEW",
	Long: `sb2review converts pages written in Scrapbox markup into Re:VIEW chapter
files. It can download pages from a Scrapbox project, convert them
incrementally into a book directory, keep catalog.yml in sync, and report
the constructs that could not be converted.

Conversion diagnostics are logged to stderr; converted text goes to stdout
or to .re files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(stringSetting(cmd, "log-level", "log.level"))
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(stringSetting(cmd, "log-format", "log.format"))
		if err != nil {
			return err
		}
		logging.Init(os.Stderr, level, format)
		if f := viper.ConfigFileUsed(); f != "" {
			logging.Get().Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sb2review.yaml or ~/.config/sb2review/sb2review.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sb2review")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sb2review"))
		}
	}

	viper.SetEnvPrefix("SB2REVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("fetch.sid", "SB2REVIEW_SID")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
