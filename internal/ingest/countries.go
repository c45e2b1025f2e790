package ingest

import (
	"sort"
	"strings"
)

// countryKeywords drives country tagging at index time. The tags must
// line up with the query-side country table so metadata matches fire.
var countryKeywords = map[string][]string{
	"canada":      {"canada", "canadian"},
	"usa":         {"united states", "usa", "us", "america", "u.s.", "u.s.a."},
	"india":       {"india", "indian", "domestic"},
	"sri lanka":   {"sri lanka", "sri lankan"},
	"bangladesh":  {"bangladesh", "bangladeshi"},
	"nepal":       {"nepal", "nepalese"},
	"maldives":    {"maldives", "maldivian"},
	"japan":       {"japan", "japanese"},
	"australia":   {"australia", "australian"},
	"europe":      {"europe", "european"},
	"uk":          {"uk", "united kingdom", "britain"},
	"myanmar":     {"myanmar", "burma"},
	"israel":      {"israel", "israeli"},
	"thailand":    {"thailand", "thai"},
	"singapore":   {"singapore", "singaporean"},
	"hongkong":    {"hongkong", "hong kong"},
	"indonesia":   {"indonesia", "indonesian"},
	"malaysia":    {"malaysia", "malaysian"},
	"philippines": {"philippines", "filipino"},
	"vietnam":     {"vietnam", "vietnamese"},
	"south korea": {"south korea", "korea", "korean"},
	"new zealand": {"new zealand", "zealand"},
}

// extractCountries tags a chunk with every country it mentions, sorted
// for stable metadata.
func extractCountries(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]struct{})

	for country, keywords := range countryKeywords {
		for _, kw := range keywords {
			if matchKeyword(lower, kw) {
				found[country] = struct{}{}
				break
			}
		}
	}

	if len(found) == 0 {
		return nil
	}
	countries := make([]string, 0, len(found))
	for c := range found {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// matchKeyword matches short keywords like "us" and "uk" only as whole
// words; a plain substring check would tag nearly every chunk.
func matchKeyword(lower, kw string) bool {
	if len(kw) > 3 {
		return strings.Contains(lower, kw)
	}
	start := 0
	for {
		idx := strings.Index(lower[start:], kw)
		if idx < 0 {
			return false
		}
		idx += start
		before := idx == 0 || !isWordByte(lower[idx-1])
		afterIdx := idx + len(kw)
		after := afterIdx >= len(lower) || !isWordByte(lower[afterIdx])
		if before && after {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
