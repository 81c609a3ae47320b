package sources

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/filter"
	"github.com/jonathan/jobscout/internal/types"
)

// GreenhouseAPIBase is the public Greenhouse job board API. Free, no auth
// for GET requests.
const GreenhouseAPIBase = "https://boards-api.greenhouse.io/v1/boards"

// Greenhouse fetches postings from the Greenhouse board API: one GET per
// company with content=true for full descriptions, no pagination needed.
type Greenhouse struct {
	APIBase  string
	Criteria config.FilterCriteria
}

// NewGreenhouse creates a Greenhouse adapter with the public API base.
func NewGreenhouse(criteria config.FilterCriteria) *Greenhouse {
	return &Greenhouse{APIBase: GreenhouseAPIBase, Criteria: criteria}
}

// Name implements Source.
func (g *Greenhouse) Name() string { return string(types.SourceGreenhouse) }

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	Content     string `json:"content"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	UpdatedAt string `json:"updated_at"`
}

// Fetch retrieves all postings for a company board, filtered by location
// and the quick title pre-filter.
func (g *Greenhouse) Fetch(ctx context.Context, company config.Company) ([]types.Job, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", g.APIBase, company.BoardToken)

	var resp greenhouseResponse
	if err := fetch.GetJSON(ctx, url, &resp, nil); err != nil {
		return nil, fmt.Errorf("greenhouse %s: %w", company.BoardToken, err)
	}

	log.Printf("[greenhouse] %s: %d total jobs", company.Name, len(resp.Jobs))

	var jobs []types.Job
	for _, raw := range resp.Jobs {
		if raw.Title == "" {
			continue
		}
		if !filter.MatchesLocation(raw.Location.Name, company.Locations) {
			continue
		}
		if !filter.PreFilterTitle(raw.Title, g.Criteria.ExcludeRoleKeywords) {
			continue
		}

		jobs = append(jobs, types.Job{
			ID:          fmt.Sprintf("greenhouse_%d", raw.ID),
			Company:     company.Name,
			Role:        raw.Title,
			Location:    normalizeLocation(raw.Location.Name),
			Link:        raw.AbsoluteURL,
			Description: fetch.StripHTML(raw.Content),
			Source:      types.SourceGreenhouse,
		})
	}

	log.Printf("[greenhouse] %s: %d candidates after location + pre-filter", company.Name, len(jobs))
	return jobs, nil
}
