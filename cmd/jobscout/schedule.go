package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/pipeline"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run scrape cycles on a fixed interval until interrupted",
	Long: `Starts a scheduler that fires a full scrape cycle every --interval hours.
One cycle also runs immediately on startup so the review queue is populated
without waiting for the first tick.`,
	RunE: runScheduleCmd,
}

var scheduleIntervalHours int

func init() {
	scheduleCommand.Flags().IntVar(&scheduleIntervalHours, "interval", 6, "Hours between scrape cycles")
	scheduleCommand.Flags().StringVar(&scrapeConfigPath, "config", "config.json", "Path to config.json file")
	scheduleCommand.Flags().BoolVar(&scrapeSkipWorkday, "skip-workday", false, "Skip the Workday tier")
	scheduleCommand.Flags().BoolVar(&scrapeEnableBrowser, "enable-browser", false, "Enable the headless-browser tier (requires Chrome)")
	scheduleCommand.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print per-job filter decisions")

	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	if scheduleIntervalHours < 1 {
		return fmt.Errorf("interval must be at least 1 hour")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		cfg, err := loadScrapeConfig(cmd)
		if err != nil {
			log.Printf("[scheduler] config error: %v", err)
			return
		}
		if _, err := pipeline.Run(ctx, pipeline.Options{Config: cfg, Verbose: scrapeVerbose}); err != nil {
			log.Printf("[scheduler] scrape cycle failed: %v", err)
		}
	}

	c := cron.New(cron.WithLogger(cron.DefaultLogger))
	spec := fmt.Sprintf("@every %dh", scheduleIntervalHours)
	if _, err := c.AddFunc(spec, runOnce); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	c.Start()
	log.Printf("[scheduler] started, spec: %s", spec)

	// Run immediately on startup (non-blocking)
	go runOnce()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("[scheduler] stopped")
	return nil
}
