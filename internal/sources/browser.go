package sources

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/filter"
	"github.com/jonathan/jobscout/internal/types"
)

// Renderer produces rendered HTML for a URL. The default drives a headless
// browser; tests substitute a canned-HTML function.
type Renderer func(ctx context.Context, url string, opts fetch.RenderOptions) (string, error)

// Browser scrapes career sites with no public API by rendering the page and
// extracting repeating card elements with fallback selector strategies.
type Browser struct {
	Criteria config.FilterCriteria
	Render   Renderer
	Verbose  bool
}

// NewBrowser creates a Browser adapter backed by the headless renderer.
func NewBrowser(criteria config.FilterCriteria) *Browser {
	return &Browser{Criteria: criteria, Render: fetch.RenderPage}
}

// Name implements Source.
func (b *Browser) Name() string { return string(types.SourceBrowser) }

// defaultCardSelectors are tried when a site configures no strategies of
// its own. Ordered from most to least specific.
var defaultCardSelectors = []config.CardSelector{
	{Card: "[data-testid='job-list-card']", Title: "a", Link: "a", Location: "[data-testid='job-location']"},
	{Card: ".job-tile", Title: ".job-title a", Link: ".job-title a", Location: ".location-and-id"},
	{Card: "li.job-result, .card-job, .position-item", Title: "a", Link: "a", Location: ".location, .card-job-location, .position-location"},
}

// Fetch renders the company's career page and extracts job cards, trying
// each selector strategy in priority order until one yields results.
func (b *Browser) Fetch(ctx context.Context, company config.Company) ([]types.Job, error) {
	html, err := b.Render(ctx, company.BaseURL, fetch.RenderOptions{
		WaitSelector: company.WaitSelector,
		Scroll:       company.Scroll,
		Verbose:      b.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("browser %s: %w", company.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("browser %s: failed to parse rendered HTML: %w", company.Name, err)
	}

	base, err := url.Parse(company.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("browser %s: invalid base URL: %w", company.Name, err)
	}

	strategies := company.CardSelectors
	if len(strategies) == 0 {
		strategies = defaultCardSelectors
	}

	var extracted []types.Job
	for i, strategy := range strategies {
		extracted = extractCards(doc, base, company.Name, strategy)
		if len(extracted) > 0 {
			log.Printf("[browser] %s: strategy %d matched %d cards", company.Name, i+1, len(extracted))
			break
		}
	}
	if len(extracted) == 0 {
		log.Printf("[browser] %s: no selector strategy matched", company.Name)
		return nil, nil
	}

	// Quick title pre-filter directly after extraction to reduce load on
	// later stages; the location filter applies only when configured.
	var jobs []types.Job
	for _, job := range extracted {
		if !filter.PreFilterTitle(job.Role, b.Criteria.ExcludeRoleKeywords) {
			continue
		}
		if len(company.Locations) > 0 && job.Location != types.UnknownLocation &&
			!filter.MatchesLocation(job.Location, company.Locations) {
			continue
		}
		jobs = append(jobs, job)
	}

	log.Printf("[browser] %s: %d of %d cards kept", company.Name, len(jobs), len(extracted))
	return jobs, nil
}

// extractCards pulls title/link/location from every card the strategy
// matches. Cards without a title are dropped at this boundary.
func extractCards(doc *goquery.Document, base *url.URL, companyName string, strategy config.CardSelector) []types.Job {
	var jobs []types.Job

	doc.Find(strategy.Card).Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(strategy.Title).First().Text())
		if title == "" {
			return
		}

		link := ""
		linkSel := strategy.Link
		if linkSel == "" {
			linkSel = "a"
		}
		if href, ok := card.Find(linkSel).First().Attr("href"); ok {
			if resolved, err := base.Parse(href); err == nil {
				link = resolved.String()
			}
		}

		location := types.UnknownLocation
		if strategy.Location != "" {
			if loc := strings.TrimSpace(card.Find(strategy.Location).First().Text()); loc != "" {
				location = loc
			}
		}

		jobs = append(jobs, types.Job{
			ID:       fmt.Sprintf("%s_%s", strings.ToLower(companyName), lastPathSegment(link)),
			Company:  companyName,
			Role:     title,
			Location: location,
			Link:     link,
			Source:   types.SourceBrowser,
		})
	})

	return jobs
}
