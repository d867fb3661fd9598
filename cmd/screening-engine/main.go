// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the screening-engine CLI.
// See docs/ARCHITECTURE § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/screening-engine/internal/secrets"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret
// value for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the screening-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "screening-engine",
	Short: "Deduplicate and filter literature-screening batches",
	Long: `screening-engine supports systematic literature screening. It parses
PubMed MEDLINE exports, removes duplicate records, auto-detects review-type
publications, and filters articles against exclusion lists with fuzzy title
matching.

Each operation is a subcommand: fetch, parse, filter, exclusions, and runs.
A screening pass typically fetches or loads a MEDLINE export, runs filter
with the project's exclusion lists, and stores the result for audit.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./screening-engine.yaml or ~/.config/screening-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("screening-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "screening-engine"))
		}
	}

	viper.SetEnvPrefix("SCREENING_ENGINE")
	viper.AutomaticEnv()

	// Matcher thresholds are tunable per project through the config file.
	defaults := types.DefaultMatcherConfig()
	viper.SetDefault("matcher.min_entry_length", defaults.MinEntryLength)
	viper.SetDefault("matcher.title_like_min_tokens", defaults.TitleLikeMinTokens)
	viper.SetDefault("matcher.title_like_min_length", defaults.TitleLikeMinLength)
	viper.SetDefault("matcher.overlap_threshold", defaults.OverlapThreshold)
	viper.SetDefault("matcher.jaccard_threshold", defaults.JaccardThreshold)
	viper.SetDefault("matcher.min_shared_tokens", defaults.MinSharedTokens)
	viper.SetDefault("matcher.containment_floor", defaults.ContainmentFloor)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// matcherConfig assembles the exclusion matcher thresholds from the
// config file (or the defaults).
func matcherConfig() types.MatcherConfig {
	return types.MatcherConfig{
		MinEntryLength:     viper.GetInt("matcher.min_entry_length"),
		TitleLikeMinTokens: viper.GetInt("matcher.title_like_min_tokens"),
		TitleLikeMinLength: viper.GetInt("matcher.title_like_min_length"),
		OverlapThreshold:   viper.GetFloat64("matcher.overlap_threshold"),
		JaccardThreshold:   viper.GetFloat64("matcher.jaccard_threshold"),
		MinSharedTokens:    viper.GetInt("matcher.min_shared_tokens"),
		ContainmentFloor:   viper.GetFloat64("matcher.containment_floor"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
