package store

import (
	"fmt"
	"time"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

// FilterNew returns the jobs not already present among pending or approved
// records, matching on the company|role|location signature so the same
// posting re-fetched from a different source or with a different link is
// still recognized. Jobs without a link are dropped.
func FilterNew(jobs []types.Job, pending []types.PendingJob, positions []types.Position) []types.Job {
	seen := make(map[string]struct{}, len(pending)+len(positions))
	for _, p := range pending {
		seen[p.Signature()] = struct{}{}
	}
	for _, p := range positions {
		seen[p.Signature()] = struct{}{}
	}

	var fresh []types.Job
	for _, job := range jobs {
		if job.Link == "" {
			continue
		}
		sig := job.Signature()
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		fresh = append(fresh, job)
	}
	return fresh
}

// toPosition converts an approved pending record into its positions entry.
// The workflow status starts over and the classifier reasoning, when
// present, seeds the notes.
func toPosition(p types.PendingJob) types.Position {
	notes := ""
	if p.Analysis != nil {
		notes = p.Analysis.Reasoning
	}

	return types.Position{
		Company:   p.Company,
		Role:      p.Role,
		Location:  p.Location,
		Link:      p.Link,
		YearsExp:  p.YearsExp,
		Status:    types.StatusNotStarted,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
}

// toPendingRecord converts a pipeline job into the staged review shape.
func toPendingRecord(job types.Job) types.PendingJob {
	years := "Unknown"
	if job.YearsRequired != nil {
		years = fmt.Sprintf("%d+", *job.YearsRequired)
	}

	return types.PendingJob{
		ID:        job.ID,
		Company:   job.Company,
		Role:      job.Role,
		Location:  job.Location,
		Link:      job.Link,
		YearsExp:  years,
		Desc:      fetch.Truncate(job.Description, MaxStoredDescription),
		Source:    job.Source,
		Analysis:  job.Analysis,
		Status:    types.StatusPending,
		ScrapedAt: time.Now(),
	}
}
