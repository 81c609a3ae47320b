// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Company describes one tracked employer and how to reach its board.
type Company struct {
	Name string `json:"name"`
	// BoardToken addresses structured-API boards (Greenhouse board token,
	// Lever company slug).
	BoardToken string `json:"board_token,omitempty"`
	// BaseURL addresses Workday CXS endpoints and rendered career sites.
	BaseURL string `json:"base_url,omitempty"`
	// Locations are the target location strings for this company.
	Locations []string `json:"locations"`
	// CardSelectors are the fallback DOM selector strategies for rendered
	// sites, tried in priority order. Ignored by API sources.
	CardSelectors []CardSelector `json:"card_selectors,omitempty"`
	// WaitSelector is the content-ready signal for rendered sites.
	WaitSelector string `json:"wait_selector,omitempty"`
	// Scroll triggers lazy loading on rendered sites before extraction.
	Scroll bool `json:"scroll,omitempty"`
}

// CardSelector is one DOM extraction strategy for a rendered career site:
// a repeating card/row selector plus relative selectors for the fields.
type CardSelector struct {
	Card     string `json:"card"`
	Title    string `json:"title"`
	Link     string `json:"link,omitempty"`
	Location string `json:"location,omitempty"`
}

// FilterCriteria holds the shared keyword tables used by the title
// pre-filter and the per-source quick filters.
type FilterCriteria struct {
	ExcludeRoleKeywords []string `json:"excludeRoleKeywords"`
	TargetRoleKeywords  []string `json:"targetRoleKeywords,omitempty"`
}

// Config is the full source configuration loaded from a JSON file.
type Config struct {
	Greenhouse []Company `json:"greenhouse"`
	Lever      []Company `json:"lever"`
	Workday    []Company `json:"workday"`
	Browser    []Company `json:"browser"`

	FilterCriteria FilterCriteria `json:"filterCriteria"`

	// TrackedCompanies is the coverage-guarantee list; every name here
	// should contribute at least one candidate per run.
	TrackedCompanies []string `json:"trackedCompanies"`

	// DefaultLocation is used for fallback single-result lookups.
	DefaultLocation string `json:"defaultLocation,omitempty"`

	// MaxYears is the experience ceiling for the deep filter.
	MaxYears int `json:"maxYears,omitempty"`

	// SkipWorkday disables the Workday tier (it can be slow/unreliable).
	SkipWorkday bool `json:"skipWorkday,omitempty"`
	// EnableBrowser opts in to the rendered-page tier.
	EnableBrowser bool `json:"enableBrowser,omitempty"`

	// Credentials, normally supplied via environment rather than file.
	APIKey      string `json:"api_key,omitempty"`
	SerpAPIKey  string `json:"serpapi_key,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
}

// Defaults applied when the config file leaves a value unset.
const (
	DefaultMaxYears = 3
	DefaultFallback = "Dublin, Ireland"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed; this is the one
// fatal configuration failure in the system.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxYears == 0 {
		c.MaxYears = DefaultMaxYears
	}
	if c.DefaultLocation == "" {
		c.DefaultLocation = DefaultFallback
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.SerpAPIKey == "" {
		c.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has usable values. Credentials are
// deliberately not required here: a missing fallback key skips the backfill
// and a missing classifier key makes the gate pass nothing; neither fails
// the run itself.
func (c *Config) Validate() error {
	for _, grp := range []struct {
		name      string
		companies []Company
	}{
		{"greenhouse", c.Greenhouse},
		{"lever", c.Lever},
		{"workday", c.Workday},
		{"browser", c.Browser},
	} {
		for i, comp := range grp.companies {
			if comp.Name == "" {
				return fmt.Errorf("config error: %s[%d] has no name", grp.name, i)
			}
			switch grp.name {
			case "greenhouse", "lever":
				if comp.BoardToken == "" {
					return fmt.Errorf("config error: %s company %q has no board_token", grp.name, comp.Name)
				}
			case "workday", "browser":
				if comp.BaseURL == "" {
					return fmt.Errorf("config error: %s company %q has no base_url", grp.name, comp.Name)
				}
			}
		}
	}

	if c.MaxYears < 0 {
		return fmt.Errorf("config error: 'maxYears' must be non-negative")
	}

	if len(c.FilterCriteria.ExcludeRoleKeywords) == 0 {
		return fmt.Errorf("config error: 'filterCriteria.excludeRoleKeywords' is empty")
	}

	return nil
}

// Companies returns every configured company across all source tiers.
func (c *Config) Companies() []Company {
	all := make([]Company, 0, len(c.Greenhouse)+len(c.Lever)+len(c.Workday)+len(c.Browser))
	all = append(all, c.Greenhouse...)
	all = append(all, c.Lever...)
	all = append(all, c.Workday...)
	all = append(all, c.Browser...)
	return all
}
