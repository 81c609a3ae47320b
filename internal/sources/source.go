// Package sources provides the per-board-class adapters that fetch raw
// postings and normalize them into the canonical Job shape. Each adapter
// owns the pagination/iteration protocol proper to its source class;
// companies are plain config descriptors, never bespoke code.
package sources

import (
	"context"
	"strings"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/types"
)

// Source is the adapter contract. Fetch returns the normalized jobs for one
// company; an error covers only that company and never aborts sibling
// companies (the pipeline records it and continues).
type Source interface {
	Name() string
	Fetch(ctx context.Context, company config.Company) ([]types.Job, error)
}

// normalizeLocation applies the Unknown sentinel for absent locations.
func normalizeLocation(loc string) string {
	if strings.TrimSpace(loc) == "" {
		return types.UnknownLocation
	}
	return loc
}

// lastPathSegment extracts a stable-ish identifier from a URL path, used
// when a source exposes no native posting ID.
func lastPathSegment(link string) string {
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		return link[i+1:]
	}
	return link
}
