package sources

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/filter"
	"github.com/jonathan/jobscout/internal/types"
)

// LeverAPIBase is the public Lever postings API.
const LeverAPIBase = "https://api.lever.co/v0/postings"

// leverGenericLocations are accepted without consulting the company's
// target list: Lever boards use loose location labels for flexible roles.
var leverGenericLocations = []string{"hybrid", "distributed", "remote", "emea", "europe"}

// Lever fetches postings from the Lever API: one GET per company slug
// returning the full posting list.
type Lever struct {
	APIBase  string
	Criteria config.FilterCriteria
}

// NewLever creates a Lever adapter with the public API base.
func NewLever(criteria config.FilterCriteria) *Lever {
	return &Lever{APIBase: LeverAPIBase, Criteria: criteria}
}

// Name implements Source.
func (l *Lever) Name() string { return string(types.SourceLever) }

type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
}

func (l *Lever) matchesLocation(loc string, targets []string) bool {
	lower := strings.ToLower(loc)
	for _, generic := range leverGenericLocations {
		if strings.Contains(lower, generic) {
			return true
		}
	}
	return filter.MatchesLocation(loc, targets)
}

// Fetch retrieves all postings for a company slug. Lever's quick filter is
// two-sided: exclude keywords first, then the positive target-keyword match.
func (l *Lever) Fetch(ctx context.Context, company config.Company) ([]types.Job, error) {
	url := fmt.Sprintf("%s/%s?mode=json", l.APIBase, company.BoardToken)

	var postings []leverPosting
	if err := fetch.GetJSON(ctx, url, &postings, nil); err != nil {
		return nil, fmt.Errorf("lever %s: %w", company.BoardToken, err)
	}

	log.Printf("[lever] %s: %d total jobs", company.Name, len(postings))

	var jobs []types.Job
	for _, raw := range postings {
		if raw.Text == "" {
			continue
		}
		if !l.matchesLocation(raw.Categories.Location, company.Locations) {
			continue
		}
		if !filter.PreFilterTitle(raw.Text, l.Criteria.ExcludeRoleKeywords) {
			continue
		}
		if !filter.MatchesTargetTitle(raw.Text, l.Criteria.TargetRoleKeywords) {
			continue
		}

		jobs = append(jobs, types.Job{
			ID:          fmt.Sprintf("lever_%s", raw.ID),
			Company:     company.Name,
			Role:        raw.Text,
			Location:    normalizeLocation(raw.Categories.Location),
			Link:        raw.HostedURL,
			Description: raw.DescriptionPlain,
			Source:      types.SourceLever,
		})
	}

	log.Printf("[lever] %s: %d candidates after filters", company.Name, len(jobs))
	return jobs, nil
}
