// Package fallback guarantees per-company coverage: any tracked company
// that produced no candidates through the primary sources gets one
// representative posting from the SerpApi Google Jobs engine.
package fallback

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

// SerpAPIBase is the SerpApi search endpoint.
const SerpAPIBase = "https://serpapi.com/search.json"

// LookupDelay spaces out SerpApi requests to stay inside free-tier rate
// limits.
const LookupDelay = 600 * time.Millisecond

// Filler fetches one fallback posting per uncovered company.
type Filler struct {
	APIBase         string
	APIKey          string
	DefaultLocation string
	Delay           time.Duration
}

// NewFiller creates a Filler against the public SerpApi endpoint.
func NewFiller(apiKey, defaultLocation string) *Filler {
	return &Filler{
		APIBase:         SerpAPIBase,
		APIKey:          apiKey,
		DefaultLocation: defaultLocation,
		Delay:           LookupDelay,
	}
}

type serpResponse struct {
	JobsResults []serpJob `json:"jobs_results"`
}

type serpJob struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ShareLink   string `json:"share_link"`
	ApplyOptions []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"apply_options"`
}

// covered reports whether any fetched job belongs to the company. The
// match is a bidirectional case-insensitive substring check so that
// "Acme" covers "Acme Corp" and vice versa.
func covered(company string, jobs []types.Job) bool {
	lower := strings.ToLower(company)
	for _, job := range jobs {
		jc := strings.ToLower(job.Company)
		if strings.Contains(jc, lower) || strings.Contains(lower, jc) {
			return true
		}
	}
	return false
}

// MissingCompanies returns the tracked companies with no job in the
// fetched set.
func MissingCompanies(tracked []string, jobs []types.Job) []string {
	var missing []string
	for _, company := range tracked {
		if !covered(company, jobs) {
			missing = append(missing, company)
		}
	}
	return missing
}

// FillMissingCompanies looks up one posting for every tracked company not
// present in jobs and returns the extra jobs. Without an API key it logs
// a warning and returns nothing.
func (f *Filler) FillMissingCompanies(ctx context.Context, tracked []string, jobs []types.Job) []types.Job {
	missing := MissingCompanies(tracked, jobs)
	if len(missing) == 0 {
		return nil
	}

	if f.APIKey == "" {
		log.Printf("[fallback] SERPAPI_KEY not set, skipping fallback for %d companies: %s",
			len(missing), strings.Join(missing, ", "))
		return nil
	}

	log.Printf("[fallback] %d companies without results: %s", len(missing), strings.Join(missing, ", "))

	var extra []types.Job
	for i, company := range missing {
		if i > 0 && f.Delay > 0 {
			select {
			case <-ctx.Done():
				return extra
			case <-time.After(f.Delay):
			}
		}

		job, err := f.lookup(ctx, company)
		if err != nil {
			log.Printf("[fallback] %s: lookup failed: %v", company, err)
			continue
		}
		if job == nil {
			log.Printf("[fallback] %s: no results", company)
			continue
		}
		extra = append(extra, *job)
	}

	log.Printf("[fallback] added %d fallback jobs", len(extra))
	return extra
}

// lookup queries the Google Jobs engine for one company and returns the
// first result, or nil when the engine has none.
func (f *Filler) lookup(ctx context.Context, company string) (*types.Job, error) {
	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", company+" jobs")
	params.Set("location", f.DefaultLocation)
	params.Set("api_key", f.APIKey)

	var resp serpResponse
	if err := fetch.GetJSON(ctx, f.APIBase+"?"+params.Encode(), &resp, nil); err != nil {
		return nil, err
	}
	if len(resp.JobsResults) == 0 {
		return nil, nil
	}

	raw := resp.JobsResults[0]
	link := raw.ShareLink
	if link == "" && len(raw.ApplyOptions) > 0 {
		link = raw.ApplyOptions[0].Link
	}

	location := raw.Location
	if strings.TrimSpace(location) == "" {
		location = f.DefaultLocation
	}

	return &types.Job{
		ID:          fmt.Sprintf("serpapi_%s", strings.ToLower(strings.ReplaceAll(company, " ", "-"))),
		Company:     company,
		Role:        raw.Title,
		Location:    location,
		Link:        link,
		Description: raw.Description,
		Source:      types.SourceFallback,
	}, nil
}
