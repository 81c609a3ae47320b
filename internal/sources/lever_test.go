package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/types"
)

func TestLeverFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("mode"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "a1", "text": "Software Engineer", "hostedUrl": "https://jobs.lever.co/acme/a1",
			 "descriptionPlain": "Build services.", "categories": {"location": "Dublin, Ireland"}},
			{"id": "a2", "text": "Software Engineer", "hostedUrl": "https://jobs.lever.co/acme/a2",
			 "descriptionPlain": "Remote role.", "categories": {"location": "Remote - EMEA"}},
			{"id": "a3", "text": "Sales Engineer", "hostedUrl": "https://jobs.lever.co/acme/a3",
			 "descriptionPlain": "Sell things.", "categories": {"location": "Dublin, Ireland"}},
			{"id": "a4", "text": "Principal Engineer", "hostedUrl": "https://jobs.lever.co/acme/a4",
			 "descriptionPlain": "Lead.", "categories": {"location": "Dublin, Ireland"}},
			{"id": "a5", "text": "Software Engineer", "hostedUrl": "https://jobs.lever.co/acme/a5",
			 "descriptionPlain": "Far away.", "categories": {"location": "Sydney, Australia"}}
		]`))
	}))
	defer server.Close()

	lv := &Lever{
		APIBase: server.URL,
		Criteria: config.FilterCriteria{
			ExcludeRoleKeywords: []string{"principal"},
			TargetRoleKeywords:  []string{"software", "backend"},
		},
	}

	jobs, err := lv.Fetch(context.Background(), config.Company{
		Name:       "Acme",
		BoardToken: "acme",
		Locations:  []string{"Dublin"},
	})
	require.NoError(t, err)

	// a1 matches the target location, a2 via the generic "remote"/"emea"
	// label. a3 fails the target-keyword match, a4 the exclude list, a5
	// the location match.
	require.Len(t, jobs, 2)
	assert.Equal(t, "lever_a1", jobs[0].ID)
	assert.Equal(t, "lever_a2", jobs[1].ID)
	assert.Equal(t, "Remote - EMEA", jobs[1].Location)
	assert.Equal(t, types.SourceLever, jobs[0].Source)
	assert.Equal(t, "Build services.", jobs[0].Description)
}

func TestLeverGenericLocations(t *testing.T) {
	lv := &Lever{}

	tests := []struct {
		location string
		want     bool
	}{
		{"Remote - Europe", true},
		{"Hybrid - Lisbon", true},
		{"Distributed", true},
		{"Dublin, Ireland", true},
		{"Austin, TX", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, lv.matchesLocation(tt.location, []string{"Dublin"}))
		})
	}
}
