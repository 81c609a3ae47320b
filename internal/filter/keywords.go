// Package filter provides the progressive filtering stages: location
// matching, title pre-filtering, and description deep-filtering. All stages
// are pure functions over text; the heuristic rules live in the enumerated
// tables below so they can be tested independently of I/O.
package filter

// TitleSeniorityKeywords fail a job during the deep filter when found in the
// title, even after it passed the configured pre-filter. This is a safety net
// for incomplete exclude-keyword lists.
var TitleSeniorityKeywords = []string{
	"senior",
	"lead",
	"principal",
	"director",
	"head of",
	"vp",
	"vice president",
}

// DescriptionSeniorityKeywords force the years estimate to at least
// SeniorityYearsFloor when the description matches no numeric pattern.
// Kept separate from TitleSeniorityKeywords: the two checks are layered
// defenses with deliberately independent keyword sets.
var DescriptionSeniorityKeywords = []string{
	"senior",
	"lead",
	"principal",
	"staff",
}

// SeniorityYearsFloor is the experience estimate assigned when seniority
// words appear without an explicit number.
const SeniorityYearsFloor = 5

// AllowedLanguages are the languages the user can work in; any other
// required language fails the deep filter.
var AllowedLanguages = map[string]bool{
	"english":    true,
	"spanish":    true,
	"portuguese": true,
}

// ExcludedLanguages enumerates the major European/Asian languages checked
// against requirement signals in descriptions.
var ExcludedLanguages = []string{
	"german",
	"french",
	"italian",
	"dutch",
	"danish",
	"swedish",
	"norwegian",
	"finnish",
	"polish",
	"czech",
	"russian",
	"turkish",
	"greek",
	"hebrew",
	"arabic",
	"hindi",
	"mandarin",
	"cantonese",
	"chinese",
	"japanese",
	"korean",
	"thai",
	"vietnamese",
	"indonesian",
	"malay",
}

// RequirementSignals are phrases that, near a language name, indicate the
// language is mandatory rather than merely mentioned.
var RequirementSignals = []string{
	"fluent",
	"fluency",
	"native speaker",
	"native-level",
	"proficiency",
	"proficient",
	"required",
	"must",
	"essential",
	"mandatory",
}

// RemoteRegionMarkers make a "remote" location in-scope when combined with
// a broad-region marker.
var RemoteRegionMarkers = []string{
	"europe",
	"emea",
	"eu",
}

// FlexibleLocationMarkers are accepted unconditionally: they imply at least
// partial presence in an unknown but plausibly-matching location.
var FlexibleLocationMarkers = []string{
	"hybrid",
	"distributed",
}
