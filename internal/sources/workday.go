package sources

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/filter"
	"github.com/jonathan/jobscout/internal/types"
)

// Workday pagination parameters. The offset cap guards against infinite
// loops when the endpoint omits or misreports a total count.
const (
	WorkdayPageSize  = 20
	WorkdayMaxOffset = 500
	// WorkdayPageDelay is the mandatory pause between pages to avoid
	// rate-limiting.
	WorkdayPageDelay = 300 * time.Millisecond
)

// Workday fetches postings from Workday CXS search endpoints: a POST-based
// offset/limit cursor loop, continuing while the last page was full.
type Workday struct {
	Criteria  config.FilterCriteria
	PageSize  int
	MaxOffset int
	PageDelay time.Duration
}

// NewWorkday creates a Workday adapter with default pagination parameters.
func NewWorkday(criteria config.FilterCriteria) *Workday {
	return &Workday{
		Criteria:  criteria,
		PageSize:  WorkdayPageSize,
		MaxOffset: WorkdayMaxOffset,
		PageDelay: WorkdayPageDelay,
	}
}

// Name implements Source.
func (w *Workday) Name() string { return string(types.SourceWorkday) }

type workdaySearchRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type workdaySearchResponse struct {
	JobPostings []workdayPosting `json:"jobPostings"`
}

type workdayPosting struct {
	Title           string   `json:"title"`
	LocationsText   string   `json:"locationsText"`
	ExternalPath    string   `json:"externalPath"`
	BulletFields    []string `json:"bulletFields"`
	DescriptionText string   `json:"descriptionText"`
	PostedOn        string   `json:"postedOn"`
}

// siteOrigin derives scheme://host from the CXS endpoint for building
// posting links from externalPath.
func siteOrigin(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid workday base URL %q", baseURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// Fetch pages through a company's CXS endpoint until a short page or the
// offset cap, with a fixed delay between pages.
func (w *Workday) Fetch(ctx context.Context, company config.Company) ([]types.Job, error) {
	origin, err := siteOrigin(company.BaseURL)
	if err != nil {
		return nil, err
	}

	var jobs []types.Job
	seen := 0
	for offset := 0; ; offset += w.PageSize {
		req := workdaySearchRequest{
			AppliedFacets: map[string]any{},
			Limit:         w.PageSize,
			Offset:        offset,
		}

		var resp workdaySearchResponse
		if err := fetch.PostJSON(ctx, company.BaseURL, req, &resp, nil); err != nil {
			// A mid-pagination failure keeps the pages already collected.
			if len(jobs) > 0 || seen > 0 {
				log.Printf("[workday] %s: page at offset %d failed, keeping %d jobs: %v",
					company.Name, offset, len(jobs), err)
				break
			}
			return nil, fmt.Errorf("workday %s: %w", company.Name, err)
		}

		seen += len(resp.JobPostings)
		for _, raw := range resp.JobPostings {
			if raw.Title == "" {
				continue
			}
			if !filter.MatchesLocation(raw.LocationsText, company.Locations) {
				continue
			}
			if !filter.PreFilterTitle(raw.Title, w.Criteria.ExcludeRoleKeywords) {
				continue
			}

			ref := raw.Title
			if len(raw.BulletFields) > 0 && raw.BulletFields[0] != "" {
				ref = raw.BulletFields[0]
			}

			jobs = append(jobs, types.Job{
				ID:          fmt.Sprintf("workday_%s_%s", company.Name, ref),
				Company:     company.Name,
				Role:        raw.Title,
				Location:    normalizeLocation(raw.LocationsText),
				Link:        origin + raw.ExternalPath,
				Description: raw.DescriptionText,
				Source:      types.SourceWorkday,
			})
		}

		if len(resp.JobPostings) < w.PageSize || offset+w.PageSize >= w.MaxOffset {
			break
		}

		if w.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return jobs, ctx.Err()
			case <-time.After(w.PageDelay):
			}
		}
	}

	log.Printf("[workday] %s: %d of %d jobs kept", company.Name, len(jobs), seen)
	return jobs, nil
}
