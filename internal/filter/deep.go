package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/jobscout/internal/types"
)

// languageWindow is how many characters before/after a language name are
// scanned for a requirement signal.
const languageWindow = 50

// yearsPatterns are the numeric-experience patterns scanned against the
// description. The maximum value across all matches is binding: when a
// description mentions multiple thresholds for different responsibilities,
// the highest one is used for exclusion.
var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years?|yrs?)(?:\s+of)?\s+experience`),
	regexp.MustCompile(`(?i)experience\s+of\s+(\d+)\s*\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d+)\s*[-–]\s*(\d+)\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)minimum\s+(?:of\s+)?(\d+)\s*\+?\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)at\s+least\s+(\d+)\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years?|yrs?)\s+(?:in|of|working)`),
}

// adjacentLanguagePatterns match an explicit requirement phrase directly
// next to a language name. Built once per excluded language.
var adjacentLanguagePatterns = buildAdjacentPatterns()

func buildAdjacentPatterns() map[string][]*regexp.Regexp {
	patterns := make(map[string][]*regexp.Regexp, len(ExcludedLanguages))
	for _, lang := range ExcludedLanguages {
		patterns[lang] = []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:fluent|fluency|proficien\w+)\s+in\s+` + lang),
			regexp.MustCompile(`(?i)` + lang + `\s+(?:fluency|proficiency)`),
			regexp.MustCompile(`(?i)native\s+` + lang),
			regexp.MustCompile(`(?i)` + lang + `[\s-]+speak\w+`),
		}
	}
	return patterns
}

// ExtractYears scans text for numeric experience patterns and returns the
// maximum value found. found is false when no pattern matched.
func ExtractYears(text string) (years int, found bool) {
	maxYears := 0
	for _, re := range yearsPatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			for _, group := range match[1:] {
				n, err := strconv.Atoi(group)
				if err != nil {
					continue
				}
				found = true
				if n > maxYears {
					maxYears = n
				}
			}
		}
	}
	return maxYears, found
}

// RequiredLanguage returns the first excluded language that the description
// marks as required, or "" if none. A language counts as required when it
// appears directly adjacent to a requirement phrase, or within the fixed
// text window of a requirement signal.
func RequiredLanguage(description string) string {
	lower := strings.ToLower(description)

	for _, lang := range ExcludedLanguages {
		idx := strings.Index(lower, lang)
		if idx < 0 {
			continue
		}

		for _, re := range adjacentLanguagePatterns[lang] {
			if re.MatchString(description) {
				return lang
			}
		}

		// Check every occurrence, not just the first.
		for start := idx; start >= 0; {
			if signalInWindow(lower, start, len(lang)) {
				return lang
			}
			next := strings.Index(lower[start+len(lang):], lang)
			if next < 0 {
				break
			}
			start += len(lang) + next
		}
	}

	return ""
}

func signalInWindow(lower string, pos, langLen int) bool {
	lo := pos - languageWindow
	if lo < 0 {
		lo = 0
	}
	hi := pos + langLen + languageWindow
	if hi > len(lower) {
		hi = len(lower)
	}
	window := lower[lo:hi]

	for _, signal := range RequirementSignals {
		if strings.Contains(window, signal) {
			return true
		}
	}
	return false
}

// containsAny reports whether text contains any of the keywords
// (case-insensitive).
func containsAny(text string, keywords []string) (string, bool) {
	t := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(t, kw) {
			return kw, true
		}
	}
	return "", false
}

// DeepFilter applies the description-level heuristics to a job: the title
// seniority re-check, years-of-experience extraction, and required-language
// detection. maxYears is the highest acceptable experience floor.
func DeepFilter(job types.Job, maxYears int) types.Verdict {
	years, foundYears := ExtractYears(job.Description)

	// Seniority words in the title fail the job outright even when the
	// pre-filter let it through.
	if kw, ok := containsAny(job.Role, TitleSeniorityKeywords); ok {
		if years < SeniorityYearsFloor {
			years = SeniorityYearsFloor
		}
		return types.Verdict{
			Pass:          false,
			Reason:        fmt.Sprintf("senior title (%q)", kw),
			YearsRequired: years,
		}
	}

	// No numeric signal but senior language in the description: assume the
	// floor rather than letting the job through as entry-level.
	if !foundYears {
		if _, ok := containsAny(job.Description, DescriptionSeniorityKeywords); ok {
			years = SeniorityYearsFloor
			foundYears = true
		}
	}

	if foundYears && years > maxYears {
		return types.Verdict{
			Pass:          false,
			Reason:        fmt.Sprintf("requires %d+ years", years),
			YearsRequired: years,
		}
	}

	if lang := RequiredLanguage(job.Description); lang != "" {
		return types.Verdict{
			Pass:          false,
			Reason:        fmt.Sprintf("requires %s", lang),
			YearsRequired: years,
		}
	}

	return types.Verdict{Pass: true, YearsRequired: years}
}
