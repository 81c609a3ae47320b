// Package classify wraps the external text-classification call in the
// batching, rate-limiting, and fail-closed protocol of the pipeline's AI
// gate. The call itself is a collaborator behind llm.Client; this package
// owns only the protocol around it.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	// DefaultBatchSize bounds concurrent outstanding classification calls.
	DefaultBatchSize = 5
	// DefaultBatchDelay is the pause between batches (free-tier rate limit).
	DefaultBatchDelay = 1 * time.Second
	// MaxDescriptionChars caps the description sent to the classifier.
	MaxDescriptionChars = 3000
)

const promptTemplate = `You are a job listing analyzer. Analyze the job posting and return ONLY a valid JSON object with NO additional text, markdown, or explanation:

{
  "is_tech_role": boolean,
  "years_required": number|null,
  "is_internship": boolean,
  "languages_required": string[],
  "matches_criteria": boolean,
  "confidence": number,
  "reasoning": string
}

CRITERIA FOR matches_criteria = true:
1. is_tech_role MUST be false (non-technical roles like sales, BD, marketing, ops)
2. years_required MUST be less than 3 OR null (entry-level friendly)
3. is_internship MUST be false
4. languages_required MUST ONLY contain "en", "es", "pt" or be empty

TECH ROLES: software engineer, developer, data scientist, ML engineer, DevOps, SRE, security engineer, technical architect, research scientist, any role requiring coding as the primary skill.
NON-TECH ROLES: sales, BDR, SDR, account executive, business development, customer success, marketing, operations, finance, HR, recruiting, legal, business-focused product/program management.
LANGUAGE DETECTION: report required languages as two-letter codes; if only English is mentioned or nothing is required, use ["en"]. reasoning must stay under 100 characters.

Analyze this job posting:

COMPANY: %s
ROLE: %s
LOCATION: %s

DESCRIPTION:
%s`

// rawAnalysis mirrors the classifier's JSON schema.
type rawAnalysis struct {
	IsTechRole        bool     `json:"is_tech_role"`
	YearsRequired     *int     `json:"years_required"`
	IsInternship      bool     `json:"is_internship"`
	LanguagesRequired []string `json:"languages_required"`
	MatchesCriteria   bool     `json:"matches_criteria"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
}

// Gate runs jobs through the external classifier in bounded batches.
type Gate struct {
	Client     llm.Client
	BatchSize  int
	BatchDelay time.Duration
}

// NewGate creates a Gate with default batching parameters.
func NewGate(client llm.Client) *Gate {
	return &Gate{
		Client:     client,
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
	}
}

// buildPrompt assembles the classification prompt for one job.
func buildPrompt(job types.Job) string {
	desc := fetch.Truncate(job.Description, MaxDescriptionChars)
	if desc == "" {
		desc = "No description available"
	}
	return fmt.Sprintf(promptTemplate, job.Company, job.Role, job.Location, desc)
}

// failClosed returns the deterministic default verdict substituted for a
// job whose classification call failed. The job will be excluded rather
// than silently let through.
func failClosed(err error) *types.Analysis {
	return &types.Analysis{
		IsTechRole:      true,
		MatchesCriteria: false,
		Confidence:      0,
		Reasoning:       fmt.Sprintf("analysis failed: %v", err),
		Analyzed:        false,
	}
}

// Analyze classifies a single job, substituting the fail-closed default
// verdict on any call failure or unparseable response.
func (g *Gate) Analyze(ctx context.Context, job types.Job) *types.Analysis {
	resp, err := g.Client.GenerateJSON(ctx, buildPrompt(job))
	if err != nil {
		log.Printf("[classify] error analyzing %q: %v", job.Role, err)
		return failClosed(err)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &raw); err != nil {
		log.Printf("[classify] unparseable response for %q: %v", job.Role, err)
		return failClosed(err)
	}

	return &types.Analysis{
		IsTechRole:        raw.IsTechRole,
		YearsRequired:     raw.YearsRequired,
		IsInternship:      raw.IsInternship,
		LanguagesRequired: raw.LanguagesRequired,
		MatchesCriteria:   raw.MatchesCriteria,
		Confidence:        raw.Confidence,
		Reasoning:         raw.Reasoning,
		Analyzed:          true,
	}
}

// FilterJobs classifies all jobs in fixed-size batches and returns only the
// ones whose verdict has matches_criteria set. The verdict is attached to
// every returned job for reviewer context. matches_criteria is trusted as
// the sole gate signal; this stage does not second-guess it.
func (g *Gate) FilterJobs(ctx context.Context, jobs []types.Job) []types.Job {
	if len(jobs) == 0 {
		return nil
	}

	batchSize := g.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	log.Printf("[classify] analyzing %d jobs in batches of %d", len(jobs), batchSize)

	analyzed := make([]types.Job, len(jobs))
	for start := 0; start < len(jobs); start += batchSize {
		end := start + batchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				job := jobs[i]
				job.Analysis = g.Analyze(ctx, job)
				analyzed[i] = job
			}(i)
		}
		wg.Wait()

		if end < len(jobs) && g.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				// Remaining jobs keep their zero value and are dropped below.
				log.Printf("[classify] cancelled after %d jobs", end)
				return collectMatches(analyzed[:end])
			case <-time.After(g.BatchDelay):
			}
		}
	}

	matches := collectMatches(analyzed)
	log.Printf("[classify] %d of %d jobs match criteria", len(matches), len(jobs))
	return matches
}

func collectMatches(jobs []types.Job) []types.Job {
	var matches []types.Job
	for _, job := range jobs {
		if job.Analysis != nil && job.Analysis.Analyzed && job.Analysis.MatchesCriteria {
			matches = append(matches, job)
		}
	}
	return matches
}
