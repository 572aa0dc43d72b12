package search

import "strings"

const (
	defaultMaxResults = 10
	maxMaxResults     = 10
)

// Query describes one company search request. Build it once per call; the
// searcher never mutates it.
type Query struct {
	Keywords   []string
	Industry   string
	Location   string
	Size       string
	MaxResults int
}

// resultCount bounds MaxResults to what the search API accepts.
func (q Query) resultCount() int64 {
	n := q.MaxResults
	if n < 1 {
		n = defaultMaxResults
	}
	if n > maxMaxResults {
		n = maxMaxResults
	}
	return int64(n)
}

// Generic tokens that bias results toward organizational pages.
const entityTokens = "company OR corporation OR ltd OR inc OR llc"

// Major social networks are rarely the company's own site; exclude them
// from search results up front.
var excludedSites = []string{
	"linkedin.com",
	"facebook.com",
	"twitter.com",
}

// buildQueryString assembles the full search string: quoted primary
// keyword for exact-phrase matching, entity tokens, quoted industry and
// location qualifiers, then negated-site filters.
func buildQueryString(q Query) string {
	var parts []string

	if len(q.Keywords) > 0 {
		parts = append(parts, `"`+q.Keywords[0]+`"`)
	}

	parts = append(parts, entityTokens)

	if q.Industry != "" {
		parts = append(parts, `"`+q.Industry+`"`)
	}
	if q.Location != "" {
		parts = append(parts, `"`+q.Location+`"`)
	}

	for _, site := range excludedSites {
		parts = append(parts, "-site:"+site)
	}

	return strings.Join(parts, " ")
}

// simplifiedQueryString is the degraded query: first keyword only, quoted,
// no other qualifiers. Over-constrained queries tend to return empty
// result sets from the API rather than erroring.
func simplifiedQueryString(q Query) string {
	if len(q.Keywords) == 0 {
		return ""
	}
	return `"` + q.Keywords[0] + `"`
}
