// Package types provides type definitions for structured data used throughout the jobscout system.
package types

import (
	"strings"
	"time"
)

// Source identifies which adapter produced a Job.
type Source string

// Source constants tag jobs with their provenance.
const (
	// SourceGreenhouse is the Greenhouse job board API
	SourceGreenhouse Source = "greenhouse"
	// SourceLever is the Lever postings API
	SourceLever Source = "lever"
	// SourceWorkday is the Workday CXS search API
	SourceWorkday Source = "workday"
	// SourceBrowser is a headless-browser rendered career site
	SourceBrowser Source = "browser"
	// SourceFallback marks jobs synthesized by the single-result fallback lookup
	SourceFallback Source = "serpapi-fallback"
)

// UnknownLocation is the sentinel used when a posting carries no location.
const UnknownLocation = "Unknown"

// Job is the canonical normalized posting record. Every adapter maps its
// source-native shape into this one before the job enters the pipeline.
type Job struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Location    string `json:"location"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Source      Source `json:"source"`

	// YearsRequired is the experience floor inferred from the description.
	// Nil means "not determined", not zero.
	YearsRequired *int `json:"years_required,omitempty"`

	// Analysis is attached after the classifier gate runs.
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Signature returns the dedup key for a job. Two jobs with equal signatures
// are treated as the same real-world posting regardless of source or link.
func (j Job) Signature() string {
	return strings.ToLower(j.Company) + "|" + strings.ToLower(j.Role) + "|" + strings.ToLower(j.Location)
}

// Analysis is the structured verdict returned by the classifier gate.
type Analysis struct {
	IsTechRole        bool     `json:"is_tech_role"`
	YearsRequired     *int     `json:"years_required"`
	IsInternship      bool     `json:"is_internship"`
	LanguagesRequired []string `json:"languages_required"`
	MatchesCriteria   bool     `json:"matches_criteria"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`

	// Analyzed is false when the verdict is the fail-closed default
	// substituted after a call failure or unparseable response.
	Analyzed bool `json:"analyzed"`
}

// Verdict is the per-stage filter outcome. Stages never mutate a job to
// remove information; they return a Verdict and the caller decides whether
// to propagate the job forward.
type Verdict struct {
	Pass          bool
	Reason        string
	YearsRequired int
}

// Workflow statuses for staged records.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusNotStarted = "not-started"
)

// PendingJob is a staged job awaiting human review.
type PendingJob struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Location  string    `json:"location"`
	Link      string    `json:"link"`
	YearsExp  string    `json:"years_exp"`
	Desc      string    `json:"description"`
	Source    Source    `json:"source"`
	Analysis  *Analysis `json:"analysis,omitempty"`
	Status    string    `json:"status"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Signature returns the dedup key for a pending record.
func (p PendingJob) Signature() string {
	return strings.ToLower(p.Company) + "|" + strings.ToLower(p.Role) + "|" + strings.ToLower(p.Location)
}

// Position is an approved application target.
type Position struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Location  string    `json:"location"`
	Link      string    `json:"link"`
	YearsExp  string    `json:"years_exp"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	Priority  bool      `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Signature returns the dedup key for an approved record.
func (p Position) Signature() string {
	return strings.ToLower(p.Company) + "|" + strings.ToLower(p.Role) + "|" + strings.ToLower(p.Location)
}

// SourceError records a non-fatal failure encountered during a run.
type SourceError struct {
	Source string `json:"source"`
	Err    string `json:"error"`
}

// ScrapeStats summarizes one pipeline run for the history log and the
// run summary output.
type ScrapeStats struct {
	StartTime      time.Time     `json:"start_time"`
	GreenhouseJobs int           `json:"greenhouse_jobs"`
	LeverJobs      int           `json:"lever_jobs"`
	WorkdayJobs    int           `json:"workday_jobs"`
	BrowserJobs    int           `json:"browser_jobs"`
	FallbackJobs   int           `json:"fallback_jobs"`
	TotalScraped   int           `json:"total_scraped"`
	AfterAIFilter  int           `json:"after_ai_filter"`
	NewJobsAdded   int           `json:"new_jobs_added"`
	Duration       time.Duration `json:"duration"`
	Errors         []SourceError `json:"errors,omitempty"`
}

// RecordError appends a non-fatal source failure to the stats.
func (s *ScrapeStats) RecordError(source string, err error) {
	s.Errors = append(s.Errors, SourceError{Source: source, Err: err.Error()})
}
