package retrieval

import "regexp"

// countryPattern ties a country tag to the query phrasings that select
// it. The table is ordered; the first matching entry wins, so more
// specific names sit above the catch-alls that could shadow them.
type countryPattern struct {
	country  string
	patterns []*regexp.Regexp
}

var countryPatterns = []countryPattern{
	{"canada", compileAll(`\bcanada\b`, `\bcanadian\b`)},
	{"usa", compileAll(`\busa\b`, `\bus\b`, `\bunited states\b`, `\bamerica\b`, `\bu\.s\.`, `\bunitedstates\b`)},
	{"india", compileAll(`\bindia\b`, `\bindian\b`, `\bdomestic\b`)},
	{"sri lanka", compileAll(`\bsri lanka\b`, `\bsri lankan\b`)},
	{"bangladesh", compileAll(`\bbangladesh\b`)},
	{"nepal", compileAll(`\bnepal\b`)},
	{"maldives", compileAll(`\bmaldives\b`)},
	{"australia", compileAll(`\baustralia\b`)},
	{"europe", compileAll(`\beurope\b`, `\beuropean\b`, `\buk\b`, `\bfrance\b`, `\bgermany\b`)},
	{"japan", compileAll(`\bjapan\b`)},
	{"south korea", compileAll(`\bsouth korea\b`, `\bkorea\b`)},
	{"mexico", compileAll(`\bmexico\b`, `\bmexican\b`)},
	{"delhi", compileAll(`\bdelhi\b`)},
	{"mumbai", compileAll(`\bmumbai\b`)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// detectCountry returns the first country whose patterns match the
// lowercased query, or "" when none do.
func detectCountry(lower string) string {
	for _, entry := range countryPatterns {
		for _, p := range entry.patterns {
			if p.MatchString(lower) {
				return entry.country
			}
		}
	}
	return ""
}
