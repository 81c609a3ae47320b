package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/observability"
	"github.com/jonathan/jobscout/internal/store"
)

var reviewDatabaseURL string

var pendingCommand = &cobra.Command{
	Use:   "pending",
	Short: "List jobs awaiting review",
	RunE:  runPendingCmd,
}

var approveAll bool

var approveCommand = &cobra.Command{
	Use:   "approve [job-id]",
	Short: "Approve a pending job into the positions list",
	Long: `Moves a pending job into the positions table with a fresh application
status. With --all, every pending job is approved.`,
	RunE: runApproveCmd,
}

var rejectAll bool

var rejectCommand = &cobra.Command{
	Use:   "reject [job-id]",
	Short: "Reject and remove a pending job",
	RunE:  runRejectCmd,
}

func init() {
	for _, cmd := range []*cobra.Command{pendingCommand, approveCommand, rejectCommand} {
		cmd.Flags().StringVar(&reviewDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
		rootCmd.AddCommand(cmd)
	}
	approveCommand.Flags().BoolVar(&approveAll, "all", false, "Approve every pending job")
	rejectCommand.Flags().BoolVar(&rejectAll, "all", false, "Reject every pending job")
}

// connectStore opens the review store from the flag or DATABASE_URL.
func connectStore(ctx context.Context) (*store.Store, error) {
	url := reviewDatabaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("no database configured: set --db-url or DATABASE_URL")
	}

	db, err := store.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runPendingCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	pending, err := db.ListPending(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintPendingJobs(pending)
	return nil
}

func runApproveCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if approveAll {
		count, err := db.ApproveAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Approved %d jobs\n", count)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("expected a job id or --all")
	}
	if err := db.Approve(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Approved %s\n", args[0])
	return nil
}

func runRejectCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if rejectAll {
		count, err := db.RejectAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Rejected %d jobs\n", count)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("expected a job id or --all")
	}
	if err := db.Reject(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Rejected %s\n", args[0])
	return nil
}
