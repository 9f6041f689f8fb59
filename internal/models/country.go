package models

import "strings"

// Geography classifies a catalog entry by coverage scope.
type Geography string

const (
	GeographyLocal    Geography = "local"
	GeographyRegional Geography = "regional"
	GeographyGlobal   Geography = "global"
)

// ParseGeography maps a raw query value to a Geography. Unknown values
// return nil, meaning "no filter".
func ParseGeography(raw string) *Geography {
	switch Geography(strings.ToLower(raw)) {
	case GeographyLocal:
		g := GeographyLocal
		return &g
	case GeographyRegional:
		g := GeographyRegional
		return &g
	case GeographyGlobal:
		g := GeographyGlobal
		return &g
	}
	return nil
}

// Country is a catalog entry. Field names follow the tenant API payload.
type Country struct {
	CountryCode      string    `json:"country_code"`
	CountryName      string    `json:"country_name"`
	ImageURL         string    `json:"image_url,omitempty"`
	Geography        Geography `json:"geography"`
	CoveredCountries []string  `json:"covered_countries,omitempty"`
	PackageCount     int       `json:"packageCount,omitempty"`
}

// MatchesSearch reports whether the country matches a search term:
// name contains it, code contains it, or any covered country code
// contains it. Matching is case-insensitive; an empty term matches all.
func (c Country) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.CountryName), term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.CountryCode), term) {
		return true
	}
	for _, code := range c.CoveredCountries {
		if strings.Contains(strings.ToLower(code), term) {
			return true
		}
	}
	return false
}

// MatchesGeography reports whether the country matches the requested
// geography. A nil geography means no filter.
func (c Country) MatchesGeography(g *Geography) bool {
	return g == nil || c.Geography == *g
}

// FilterCountries applies the geography and search filters client-side.
// The same rule runs on both the cache and network paths. Multi-country
// records additionally match when one of their covered codes belongs to
// a record that matched the term directly, so searching "mex" surfaces
// a regional plan covering MX alongside Mexico itself.
func FilterCountries(countries []Country, geography *Geography, search string) []Country {
	term := strings.ToLower(strings.TrimSpace(search))

	// Codes of records matched directly by name, resolved before the
	// geography filter so a regional record can match through a local
	// one that the geography filter would drop.
	matchedCodes := make(map[string]bool)
	if term != "" {
		for _, c := range countries {
			if strings.Contains(strings.ToLower(c.CountryName), term) {
				matchedCodes[strings.ToLower(c.CountryCode)] = true
			}
		}
	}

	result := make([]Country, 0, len(countries))
	for _, c := range countries {
		if !c.MatchesGeography(geography) {
			continue
		}
		if term != "" && !c.matchesTerm(term, matchedCodes) {
			continue
		}
		result = append(result, c)
	}
	return result
}

func (c Country) matchesTerm(term string, matchedCodes map[string]bool) bool {
	if c.MatchesSearch(term) {
		return true
	}
	for _, code := range c.CoveredCountries {
		if matchedCodes[strings.ToLower(code)] {
			return true
		}
	}
	return false
}
