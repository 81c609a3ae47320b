package filter

import "strings"

// MatchesLocation reports whether a posting's free-text location is in scope
// for any of the configured target locations. Matching is case-insensitive
// substring; "remote" locations count when paired with a broad-region marker,
// and hybrid/distributed markers are accepted unconditionally.
// Empty location text never matches.
func MatchesLocation(rawLocation string, targetLocations []string) bool {
	loc := strings.ToLower(strings.TrimSpace(rawLocation))
	if loc == "" {
		return false
	}

	for _, marker := range FlexibleLocationMarkers {
		if strings.Contains(loc, marker) {
			return true
		}
	}

	if strings.Contains(loc, "remote") {
		for _, region := range RemoteRegionMarkers {
			if strings.Contains(loc, region) {
				return true
			}
		}
	}

	for _, target := range targetLocations {
		if target == "" {
			continue
		}
		if strings.Contains(loc, strings.ToLower(target)) {
			return true
		}
	}

	return false
}
