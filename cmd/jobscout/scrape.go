package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/pipeline"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Run one full scrape-filter-stage cycle",
	Long: `Fetches postings from every configured source tier, applies the location,
title and description filters, runs the AI classifier gate, and stages new
matches as pending jobs for review.

Configuration is loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runScrapeCmd,
}

var (
	scrapeConfigPath    string
	scrapeAPIKey        string
	scrapeSerpAPIKey    string
	scrapeDatabaseURL   string
	scrapeSkipWorkday   bool
	scrapeEnableBrowser bool
	scrapeVerbose       bool
)

func init() {
	scrapeCommand.Flags().StringVar(&scrapeConfigPath, "config", "config.json", "Path to config.json file (values can be overridden by other flags)")
	scrapeCommand.Flags().StringVar(&scrapeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	scrapeCommand.Flags().StringVar(&scrapeSerpAPIKey, "serpapi-key", "", "SerpApi key for fallback lookups (optional, defaults to SERPAPI_KEY env var)")
	scrapeCommand.Flags().StringVar(&scrapeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	scrapeCommand.Flags().BoolVar(&scrapeSkipWorkday, "skip-workday", false, "Skip the Workday tier")
	scrapeCommand.Flags().BoolVar(&scrapeEnableBrowser, "enable-browser", false, "Enable the headless-browser tier (requires Chrome)")
	scrapeCommand.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print per-job filter decisions")

	rootCmd.AddCommand(scrapeCommand)
}

// loadScrapeConfig loads the config file and applies flag overrides. Only
// flags the user explicitly set override file values.
func loadScrapeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(scrapeConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = scrapeAPIKey
	}
	if cmd.Flags().Changed("serpapi-key") {
		cfg.SerpAPIKey = scrapeSerpAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scrapeDatabaseURL
	}
	if cmd.Flags().Changed("skip-workday") {
		cfg.SkipWorkday = scrapeSkipWorkday
	}
	if cmd.Flags().Changed("enable-browser") {
		cfg.EnableBrowser = scrapeEnableBrowser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadScrapeConfig(cmd)
	if err != nil {
		return err
	}

	_, err = pipeline.Run(context.Background(), pipeline.Options{
		Config:  cfg,
		Verbose: scrapeVerbose,
	})
	return err
}
