package filter

import (
	"testing"

	"github.com/jonathan/jobscout/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		expected  int
		wantFound bool
	}{
		{"Plain years experience", "3 years experience in sales", 3, true},
		{"Years of experience", "5 years of experience required", 5, true},
		{"Plus marker", "2+ years experience", 2, true},
		{"Yrs abbreviation", "4 yrs experience", 4, true},
		{"Experience of N years", "experience of 6 years", 6, true},
		{"Range takes both bounds", "2-4 years in a quota-carrying role", 4, true},
		{"Minimum of", "Minimum of 4 years experience required", 4, true},
		{"At least", "at least 7 years working with clients", 7, true},
		{"Years in", "3 years in customer success", 3, true},
		{"Years working", "2 years working with CRM tools", 2, true},
		{"Maximum across mentions", "1 year of experience in sales, 8 years of experience leading teams", 8, true},
		{"Case insensitive", "MINIMUM OF 5 YEARS EXPERIENCE", 5, true},
		{"No pattern", "great communication skills", 0, false},
		{"Bare number not matched", "join our team of 50 people", 0, false},
		{"Empty text", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, found := ExtractYears(tt.text)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.expected, years)
		})
	}
}

func TestRequiredLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"Fluent in German", "Fluency in German is required", "german"},
		{"German fluency", "German fluency essential for this market", "german"},
		{"Native speaker", "Native French speaker preferred", "french"},
		{"Signal within window", "You must be comfortable working in Japanese with clients", "japanese"},
		{"Language mentioned without signal", "Our Berlin office serves the German market and our teams span many regions of the continent", ""},
		{"Allowed language ignored", "Fluency in Spanish is required", ""},
		{"English only", "Must be fluent in English", ""},
		{"No language at all", "Strong sales background needed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RequiredLanguage(tt.text))
		})
	}
}

func TestDeepFilter(t *testing.T) {
	job := func(role, desc string) types.Job {
		return types.Job{Role: role, Description: desc}
	}

	t.Run("Entry level role passes", func(t *testing.T) {
		v := DeepFilter(job("Account Executive", "1-2 years of experience preferred. Must be fluent in English."), 3)
		assert.True(t, v.Pass)
		assert.Equal(t, 2, v.YearsRequired)
	})

	t.Run("No experience mentioned passes with zero years", func(t *testing.T) {
		v := DeepFilter(job("BDR", "Join our sales team in Dublin."), 3)
		assert.True(t, v.Pass)
		assert.Equal(t, 0, v.YearsRequired)
	})

	t.Run("Too many years fails with reason", func(t *testing.T) {
		v := DeepFilter(job("Account Manager", "Minimum of 4 years experience required"), 3)
		assert.False(t, v.Pass)
		assert.Contains(t, v.Reason, "4")
		assert.Equal(t, 4, v.YearsRequired)
	})

	t.Run("Required language fails regardless of years", func(t *testing.T) {
		v := DeepFilter(job("Account Executive", "1 year of experience. Fluency in German is required."), 3)
		assert.False(t, v.Pass)
		assert.Contains(t, v.Reason, "german")
	})

	t.Run("Senior title fails with forced years floor", func(t *testing.T) {
		v := DeepFilter(job("Senior Account Executive", "No experience requirements listed"), 3)
		assert.False(t, v.Pass)
		assert.GreaterOrEqual(t, v.YearsRequired, SeniorityYearsFloor)
	})

	t.Run("Director title fails", func(t *testing.T) {
		v := DeepFilter(job("Director of Sales", ""), 3)
		assert.False(t, v.Pass)
	})

	t.Run("Seniority words without numbers force floor", func(t *testing.T) {
		v := DeepFilter(job("Account Executive", "We want a senior salesperson to own the region."), 3)
		assert.False(t, v.Pass)
		assert.Equal(t, SeniorityYearsFloor, v.YearsRequired)
	})

	t.Run("Boundary years value passes", func(t *testing.T) {
		v := DeepFilter(job("BDR", "3 years of experience required"), 3)
		assert.True(t, v.Pass)
		assert.Equal(t, 3, v.YearsRequired)
	})
}
