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

func TestGreenhouseFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/jobs", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("content"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs": [
			{"id": 101, "title": "Software Engineer", "absolute_url": "https://boards.greenhouse.io/acme/jobs/101",
			 "content": "<p>Build <b>things</b>.</p>", "location": {"name": "Dublin, Ireland"}},
			{"id": 102, "title": "Senior Software Engineer", "absolute_url": "https://boards.greenhouse.io/acme/jobs/102",
			 "content": "<p>Lead things.</p>", "location": {"name": "Dublin, Ireland"}},
			{"id": 103, "title": "Backend Engineer", "absolute_url": "https://boards.greenhouse.io/acme/jobs/103",
			 "content": "<p>APIs.</p>", "location": {"name": "Tokyo, Japan"}},
			{"id": 104, "title": "", "absolute_url": "https://boards.greenhouse.io/acme/jobs/104",
			 "content": "", "location": {"name": "Dublin, Ireland"}}
		]}`))
	}))
	defer server.Close()

	gh := &Greenhouse{
		APIBase:  server.URL,
		Criteria: config.FilterCriteria{ExcludeRoleKeywords: []string{"senior"}},
	}

	jobs, err := gh.Fetch(context.Background(), config.Company{
		Name:       "Acme",
		BoardToken: "acme",
		Locations:  []string{"Dublin"},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "greenhouse_101", job.ID)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Software Engineer", job.Role)
	assert.Equal(t, "Dublin, Ireland", job.Location)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/101", job.Link)
	assert.Equal(t, "Build things.", job.Description)
	assert.Equal(t, types.SourceGreenhouse, job.Source)
}

func TestGreenhouseFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gh := &Greenhouse{APIBase: server.URL}

	jobs, err := gh.Fetch(context.Background(), config.Company{Name: "Gone", BoardToken: "gone"})
	assert.Error(t, err)
	assert.Nil(t, jobs)
}
