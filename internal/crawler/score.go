package crawler

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Overall score weights. Topical relevance and trust signals matter more
// than raw contact volume: a credible match beats a page full of emails.
const (
	weightRelevance   = 0.30
	weightCredibility = 0.25
	weightContact     = 0.25
	weightContent     = 0.15
	weightTechnical   = 0.05
)

// ScoreResult computes the five sub-scores from the extracted signals and
// the raw markup, clamps each to [0,100], and combines them into the
// weighted overall score. Pure function: no I/O, no failure mode.
func ScoreResult(r *CrawlResult, html string) Score {
	lower := strings.ToLower(html)
	descLen := utf8.RuneCountInString(r.Description)

	relevance := 0
	if r.CompanyName != "" && r.CompanyName != UnknownCompany {
		relevance += 30
	}
	if descLen > 50 {
		relevance += 40
	}
	if r.BusinessInfo.Industry != "" {
		relevance += 30
	}

	credibility := 0
	if strings.HasPrefix(r.Website, "https://") {
		credibility += 20
	}
	if r.BusinessInfo.FoundedYear != "" {
		credibility += 20
	}
	if len(r.Addresses) > 0 {
		credibility += 20
	}
	if r.SocialMedia.Any() {
		credibility += 20
	}
	if strings.Contains(lower, "privacy") || strings.Contains(lower, "terms") {
		credibility += 20
	}

	contact := len(r.ContactEmails)*40 + len(r.Phones)*30 + len(r.Addresses)*20
	if r.SocialMedia.LinkedIn != "" {
		contact += 10
	}

	content := 0
	if descLen > 100 {
		content += 30
	}
	if descLen > 300 {
		content += 20
	}
	words := len(strings.Fields(html))
	if words > 500 {
		content += 25
	}
	if words > 1500 {
		content += 25
	}

	technical := 0
	if strings.Contains(lower, "viewport") {
		technical += 20
	}
	if strings.Contains(lower, "og:") {
		technical += 20
	}
	if strings.Contains(lower, "schema.org") {
		technical += 30
	}
	if strings.Contains(lower, "json-ld") || strings.Contains(lower, "application/ld+json") {
		technical += 30
	}

	relevance = clampScore(relevance)
	credibility = clampScore(credibility)
	contact = clampScore(contact)
	content = clampScore(content)
	technical = clampScore(technical)

	overall := int(math.Round(
		float64(relevance)*weightRelevance +
			float64(credibility)*weightCredibility +
			float64(contact)*weightContact +
			float64(content)*weightContent +
			float64(technical)*weightTechnical,
	))

	return Score{
		Overall:     overall,
		Relevance:   relevance,
		Credibility: credibility,
		Contact:     contact,
		Content:     content,
		Technical:   technical,
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
