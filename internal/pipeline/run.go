// Package pipeline provides the high-level orchestration for a scrape run:
// tiered source fetching, coverage fallback, deep filtering, the AI
// classifier gate, and staging into the review store.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobscout/internal/classify"
	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fallback"
	"github.com/jonathan/jobscout/internal/filter"
	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/observability"
	"github.com/jonathan/jobscout/internal/sources"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// Inter-company pacing per tier. Greenhouse and Lever share an API host
// across companies, so requests are spaced; Workday paces per page instead.
const (
	GreenhouseCompanyDelay = 500 * time.Millisecond
	LeverCompanyDelay      = 300 * time.Millisecond

	// WorkdayTierTimeout bounds the slowest tier. Workday endpoints
	// sometimes hang mid-pagination; after the deadline the whole tier is
	// abandoned and recorded as a source error.
	WorkdayTierTimeout = 2 * time.Minute

	// browserConcurrency bounds simultaneous headless renders.
	browserConcurrency = 2
)

// Storer is the persistence surface the pipeline needs.
type Storer interface {
	StagePending(ctx context.Context, jobs []types.Job) (int, error)
	LogScrapeHistory(ctx context.Context, stats types.ScrapeStats) error
}

// Classifier is the AI gate surface.
type Classifier interface {
	FilterJobs(ctx context.Context, jobs []types.Job) []types.Job
}

// CoverageFiller backfills companies the primary sources missed.
type CoverageFiller interface {
	FillMissingCompanies(ctx context.Context, tracked []string, jobs []types.Job) []types.Job
}

// Options holds configuration for a scrape run. The zero-value component
// fields are built from Config; tests inject fakes.
type Options struct {
	Config  *config.Config
	Verbose bool

	Store      Storer
	Classifier Classifier
	Filler     CoverageFiller

	Greenhouse sources.Source
	Lever      sources.Source
	Workday    sources.Source
	Browser    sources.Source
}

// Run executes one full scrape-filter-stage cycle. It returns the run
// stats along with an error only when the run produced nothing and at
// least one source failed; partial failure with results is a success.
func Run(ctx context.Context, opts Options) (types.ScrapeStats, error) {
	cfg := opts.Config
	stats := types.ScrapeStats{StartTime: time.Now()}
	printer := observability.NewPrinter(os.Stdout)

	criteria := cfg.FilterCriteria
	if opts.Greenhouse == nil {
		opts.Greenhouse = sources.NewGreenhouse(criteria)
	}
	if opts.Lever == nil {
		opts.Lever = sources.NewLever(criteria)
	}
	if opts.Workday == nil {
		opts.Workday = sources.NewWorkday(criteria)
	}
	if opts.Browser == nil {
		opts.Browser = sources.NewBrowser(criteria)
	}

	var all []types.Job

	// Tier 1: Greenhouse boards.
	jobs := fetchTier(ctx, opts.Greenhouse, cfg.Greenhouse, GreenhouseCompanyDelay, &stats)
	stats.GreenhouseJobs = len(jobs)
	all = append(all, jobs...)

	// Tier 2: Lever boards.
	jobs = fetchTier(ctx, opts.Lever, cfg.Lever, LeverCompanyDelay, &stats)
	stats.LeverJobs = len(jobs)
	all = append(all, jobs...)

	// Tier 3: Workday, bounded by the tier timeout.
	if cfg.SkipWorkday {
		log.Printf("[pipeline] workday tier skipped by configuration")
	} else {
		jobs = fetchWorkdayTier(ctx, opts.Workday, cfg.Workday, &stats, WorkdayTierTimeout)
		stats.WorkdayJobs = len(jobs)
		all = append(all, jobs...)
	}

	// Tier 4: browser-rendered sites, opt-in.
	if cfg.EnableBrowser {
		jobs = fetchBrowserTier(ctx, opts.Browser, cfg.Browser, &stats)
		stats.BrowserJobs = len(jobs)
		all = append(all, jobs...)
	} else if len(cfg.Browser) > 0 {
		log.Printf("[pipeline] %d browser companies configured but browser tier disabled", len(cfg.Browser))
	}

	all = dedupeByLink(all)
	log.Printf("[pipeline] %d unique jobs across all sources", len(all))

	// Coverage fallback before deep filtering: fallback jobs carry thin
	// descriptions and exist to surface the company, not to be filtered.
	if opts.Filler == nil {
		opts.Filler = fallback.NewFiller(cfg.SerpAPIKey, cfg.DefaultLocation)
	}
	extra := opts.Filler.FillMissingCompanies(ctx, cfg.TrackedCompanies, all)
	stats.FallbackJobs = len(extra)
	stats.TotalScraped = len(all) + len(extra)

	// Deep filter on full descriptions.
	var deep []types.Job
	for _, job := range all {
		verdict := filter.DeepFilter(job, cfg.MaxYears)
		if !verdict.Pass {
			if opts.Verbose {
				log.Printf("[filter] dropped %q at %s: %s", job.Role, job.Company, verdict.Reason)
			}
			continue
		}
		if verdict.YearsRequired > 0 {
			years := verdict.YearsRequired
			job.YearsRequired = &years
		}
		deep = append(deep, job)
	}
	log.Printf("[pipeline] %d jobs after deep filter", len(deep))

	deep = append(deep, extra...)

	// AI classifier gate. The gate fails closed: without a working
	// classifier nothing reaches staging unanalyzed.
	var matched []types.Job
	if opts.Classifier == nil {
		if cfg.APIKey == "" {
			log.Printf("[pipeline] GEMINI_API_KEY not set, AI gate passes nothing")
		} else {
			client, err := llm.NewGeminiClient(ctx, cfg.APIKey, llm.DefaultModel)
			if err != nil {
				log.Printf("[pipeline] AI filter unavailable: %v", err)
				stats.RecordError("classifier", err)
			} else {
				defer client.Close()
				opts.Classifier = classify.NewGate(client)
			}
		}
	}
	if opts.Classifier != nil {
		matched = opts.Classifier.FilterJobs(ctx, deep)
	}
	stats.AfterAIFilter = len(matched)

	// Stage for review.
	if opts.Store == nil {
		if cfg.DatabaseURL == "" {
			log.Printf("[pipeline] DATABASE_URL not set, results will not be persisted")
		} else {
			db, err := store.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				stats.RecordError("store", err)
			} else {
				defer db.Close()
				if err := db.EnsureSchema(ctx); err != nil {
					stats.RecordError("store", err)
				} else {
					opts.Store = db
				}
			}
		}
	}
	if opts.Store != nil {
		added, err := opts.Store.StagePending(ctx, matched)
		if err != nil {
			stats.RecordError("store", err)
		}
		stats.NewJobsAdded = added

		stats.Duration = time.Since(stats.StartTime)
		if err := opts.Store.LogScrapeHistory(ctx, stats); err != nil {
			log.Printf("[pipeline] failed to log scrape history: %v", err)
		}
	}
	stats.Duration = time.Since(stats.StartTime)

	printer.PrintRunSummary(stats)

	if stats.NewJobsAdded == 0 && len(stats.Errors) > 0 {
		return stats, fmt.Errorf("no new jobs staged and %d source errors", len(stats.Errors))
	}
	return stats, nil
}

// fetchTier runs one source over its companies sequentially with a fixed
// pause between companies. A company failure is recorded and skipped.
func fetchTier(ctx context.Context, src sources.Source, companies []config.Company, delay time.Duration, stats *types.ScrapeStats) []types.Job {
	var all []types.Job
	for i, company := range companies {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return all
			case <-time.After(delay):
			}
		}

		jobs, err := src.Fetch(ctx, company)
		if err != nil {
			log.Printf("[pipeline] %s/%s failed: %v", src.Name(), company.Name, err)
			stats.RecordError(fmt.Sprintf("%s/%s", src.Name(), company.Name), err)
			continue
		}
		all = append(all, jobs...)
	}
	return all
}

// tierResult carries a tier's output across the timeout boundary.
type tierResult struct {
	jobs  []types.Job
	stats types.ScrapeStats
}

// fetchWorkdayTier runs the Workday tier against its deadline. On timeout
// the partial results are discarded so that a hung endpoint cannot stage a
// misleading half-run, and the tier is recorded as failed. The goroutine
// collects into its own stats so the timeout path never races it.
func fetchWorkdayTier(ctx context.Context, src sources.Source, companies []config.Company, stats *types.ScrapeStats, timeout time.Duration) []types.Job {
	if len(companies) == 0 {
		return nil
	}

	tierCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan tierResult, 1)
	go func() {
		var r tierResult
		r.jobs = fetchTier(tierCtx, src, companies, 0, &r.stats)
		done <- r
	}()

	select {
	case r := <-done:
		if tierCtx.Err() != context.DeadlineExceeded {
			stats.Errors = append(stats.Errors, r.stats.Errors...)
			return r.jobs
		}
	case <-time.After(timeout + time.Second):
	}

	log.Printf("[pipeline] workday tier timed out after %s, discarding partial results", timeout)
	stats.RecordError("workday", fmt.Errorf("tier timed out after %s", timeout))
	return nil
}

// fetchBrowserTier renders company pages concurrently. Each company is its
// own site, so there is no shared host to pace against; concurrency is
// bounded to keep headless browser memory in check.
func fetchBrowserTier(ctx context.Context, src sources.Source, companies []config.Company, stats *types.ScrapeStats) []types.Job {
	var mu sync.Mutex
	var all []types.Job

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(browserConcurrency)
	for _, company := range companies {
		company := company
		g.Go(func() error {
			jobs, err := src.Fetch(gctx, company)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[pipeline] browser/%s failed: %v", company.Name, err)
				stats.RecordError("browser/"+company.Name, err)
				return nil
			}
			all = append(all, jobs...)
			return nil
		})
	}
	g.Wait()

	return all
}

// dedupeByLink collapses in-run duplicates. The first occurrence wins, so
// tier order establishes source precedence. The link is the key because
// within one run the same posting fetched twice shares its URL; jobs
// without links fall back to the adapter ID.
func dedupeByLink(jobs []types.Job) []types.Job {
	seen := make(map[string]struct{}, len(jobs))
	var unique []types.Job
	for _, job := range jobs {
		key := job.Link
		if key == "" {
			key = job.ID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, job)
	}
	return unique
}
