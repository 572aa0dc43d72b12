package crawler

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreResultWeightedOverall(t *testing.T) {
	// relevance 70 (name + description), credibility 20 (https only),
	// contact 80 (two emails), content 30 (description > 100 runes),
	// technical 0. Weighted sum 50.5 rounds to 51.
	r := &CrawlResult{
		CompanyName: "Acme Tools",
		Website:     "https://acme.example.org",
		Description: strings.Repeat("Acme makes precision tools. ", 5),
		ContactEmails: []string{
			"sales@acme.example.org",
			"support@acme.example.org",
		},
		Phones:    []string{},
		Addresses: []string{},
	}

	score := ScoreResult(r, "<html><body>hello world</body></html>")

	assert.Equal(t, 70, score.Relevance)
	assert.Equal(t, 20, score.Credibility)
	assert.Equal(t, 80, score.Contact)
	assert.Equal(t, 30, score.Content)
	assert.Equal(t, 0, score.Technical)
	assert.Equal(t, 51, score.Overall)
}

func TestScoreResultClampsContact(t *testing.T) {
	r := &CrawlResult{
		CompanyName:   UnknownCompany,
		Website:       "http://contacts.example.org",
		ContactEmails: []string{"a@x.org", "b@x.org", "c@x.org"},
		Phones:        []string{"555-0100", "555-0101"},
	}

	score := ScoreResult(r, "")

	assert.Equal(t, 100, score.Contact, "3*40 + 2*30 clamps to 100")
}

func TestScoreResultEmptyInputIsZero(t *testing.T) {
	r := &CrawlResult{CompanyName: UnknownCompany, Website: "http://x.org"}

	score := ScoreResult(r, "")

	assert.Equal(t, Score{}, score)
}

func TestScoreResultTechnicalSignals(t *testing.T) {
	html := `<html><head>
<meta name="viewport" content="width=device-width">
<meta property="og:title" content="x">
<script type="application/ld+json">{"@context":"https://schema.org"}</script>
</head><body></body></html>`

	r := &CrawlResult{CompanyName: UnknownCompany, Website: "http://x.org"}
	score := ScoreResult(r, html)

	assert.Equal(t, 100, score.Technical, "viewport + og: + schema.org + ld+json")
}

func TestScoreResultCredibilitySignals(t *testing.T) {
	r := &CrawlResult{
		CompanyName:  UnknownCompany,
		Website:      "https://trusted.example.org",
		Addresses:    []string{"1 Main St"},
		SocialMedia:  SocialMedia{LinkedIn: "https://linkedin.com/company/trusted"},
		BusinessInfo: BusinessInfo{FoundedYear: "1999"},
	}

	score := ScoreResult(r, "<a href=\"/privacy\">Privacy Policy</a>")

	assert.Equal(t, 100, score.Credibility)
}

func TestScoreResultBoundsProperty(t *testing.T) {
	results := []*CrawlResult{
		{CompanyName: "A", Website: "https://a.org", Description: strings.Repeat("x", 400)},
		{CompanyName: UnknownCompany, Website: "ftp://weird"},
		{CompanyName: "B", Website: "https://b.org", ContactEmails: []string{"a@b.org"}, Phones: []string{"555-0100"}},
	}

	for _, r := range results {
		score := ScoreResult(r, strings.Repeat("word ", 2000))

		for _, v := range []int{score.Overall, score.Relevance, score.Credibility, score.Contact, score.Content, score.Technical} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}

		want := int(math.Round(
			float64(score.Relevance)*weightRelevance +
				float64(score.Credibility)*weightCredibility +
				float64(score.Contact)*weightContact +
				float64(score.Content)*weightContent +
				float64(score.Technical)*weightTechnical))
		assert.Equal(t, want, score.Overall)
	}
}
