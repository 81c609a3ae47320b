package filter

import "strings"

// PreFilterTitle reports whether a job title survives the cheap keyword
// filter: the job is rejected if the title contains any excluded keyword.
// This sheds the bulk of obviously-disqualified postings before expensive
// downstream work, trading recall for speed.
func PreFilterTitle(title string, excludeKeywords []string) bool {
	t := strings.ToLower(title)
	for _, kw := range excludeKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(t, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// MatchesTargetTitle reports whether a title contains any of the positive
// target keywords. An empty target list matches everything; Lever-style
// boards use this after the exclude pass.
func MatchesTargetTitle(title string, targetKeywords []string) bool {
	if len(targetKeywords) == 0 {
		return true
	}
	t := strings.ToLower(title)
	for _, kw := range targetKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(t, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
