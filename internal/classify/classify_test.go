package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/jobscout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns canned responses keyed by role name found in the prompt.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     int
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	for role, resp := range f.responses {
		if strings.Contains(prompt, role) {
			return resp, nil
		}
	}
	return `{"matches_criteria": false}`, nil
}

func (f *fakeClient) Close() error { return nil }

const matchResponse = `{
	"is_tech_role": false,
	"years_required": 1,
	"is_internship": false,
	"languages_required": ["en"],
	"matches_criteria": true,
	"confidence": 0.9,
	"reasoning": "entry-level sales role"
}`

const noMatchResponse = `{
	"is_tech_role": true,
	"years_required": 5,
	"is_internship": false,
	"languages_required": ["en"],
	"matches_criteria": false,
	"confidence": 0.95,
	"reasoning": "senior engineering role"
}`

func TestAnalyze(t *testing.T) {
	client := &fakeClient{responses: map[string]string{"BDR": matchResponse}}
	gate := NewGate(client)

	analysis := gate.Analyze(context.Background(), types.Job{Company: "Acme", Role: "BDR"})

	require.NotNil(t, analysis)
	assert.True(t, analysis.Analyzed)
	assert.True(t, analysis.MatchesCriteria)
	assert.False(t, analysis.IsTechRole)
	require.NotNil(t, analysis.YearsRequired)
	assert.Equal(t, 1, *analysis.YearsRequired)
	assert.Equal(t, []string{"en"}, analysis.LanguagesRequired)
}

func TestAnalyzeFailClosed(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	gate := NewGate(client)

	analysis := gate.Analyze(context.Background(), types.Job{Role: "BDR"})

	require.NotNil(t, analysis)
	assert.False(t, analysis.Analyzed)
	assert.True(t, analysis.IsTechRole)
	assert.False(t, analysis.MatchesCriteria)
	assert.Zero(t, analysis.Confidence)
}

func TestAnalyzeUnparseableResponse(t *testing.T) {
	client := &fakeClient{responses: map[string]string{"BDR": "not json at all"}}
	gate := NewGate(client)

	analysis := gate.Analyze(context.Background(), types.Job{Role: "BDR"})

	assert.False(t, analysis.Analyzed)
	assert.False(t, analysis.MatchesCriteria)
}

func TestAnalyzeStripsCodeFence(t *testing.T) {
	client := &fakeClient{responses: map[string]string{"BDR": "```json\n" + matchResponse + "\n```"}}
	gate := NewGate(client)

	analysis := gate.Analyze(context.Background(), types.Job{Role: "BDR"})
	assert.True(t, analysis.MatchesCriteria)
}

func TestFilterJobs(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"BDR":             matchResponse,
		"Senior Engineer": noMatchResponse,
	}}
	gate := NewGate(client)
	gate.BatchDelay = 0

	jobs := []types.Job{
		{Company: "Acme", Role: "BDR"},
		{Company: "Acme", Role: "Senior Engineer"},
	}

	matched := gate.FilterJobs(context.Background(), jobs)

	require.Len(t, matched, 1)
	assert.Equal(t, "BDR", matched[0].Role)
	require.NotNil(t, matched[0].Analysis)
	assert.True(t, matched[0].Analysis.MatchesCriteria)
}

func TestFilterJobsAllFailClosed(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	gate := NewGate(client)
	gate.BatchDelay = 0

	matched := gate.FilterJobs(context.Background(), []types.Job{{Role: "BDR"}, {Role: "AE"}})
	assert.Empty(t, matched)
	assert.Equal(t, 2, client.calls)
}

func TestFilterJobsBatching(t *testing.T) {
	client := &fakeClient{responses: map[string]string{"role-": matchResponse}}
	gate := NewGate(client)
	gate.BatchSize = 3
	gate.BatchDelay = 0

	var jobs []types.Job
	for i := 0; i < 7; i++ {
		jobs = append(jobs, types.Job{Role: fmt.Sprintf("role-%d", i)})
	}

	matched := gate.FilterJobs(context.Background(), jobs)
	assert.Len(t, matched, 7)
	assert.Equal(t, 7, client.calls)
}

func TestFilterJobsEmpty(t *testing.T) {
	gate := NewGate(&fakeClient{})
	assert.Nil(t, gate.FilterJobs(context.Background(), nil))
}

func TestBuildPromptTruncatesDescription(t *testing.T) {
	job := types.Job{
		Company:     "Acme",
		Role:        "BDR",
		Location:    "Dublin",
		Description: strings.Repeat("x", MaxDescriptionChars+500),
	}
	prompt := buildPrompt(job)
	assert.LessOrEqual(t, strings.Count(prompt, "x"), MaxDescriptionChars)
	assert.Contains(t, prompt, "COMPANY: Acme")
}
