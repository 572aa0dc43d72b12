package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Acme Tools GmbH</title>
<meta name="description" content="Acme builds precision hand tools for industrial customers.">
<meta property="og:site_name" content="Acme Tools">
</head>
<body>
<h1>Welcome to Acme</h1>
<p>Founded: 1987. Over 250 employees across three plants.</p>
<div class="contact-address">Industriestrasse 5, 80331 Munich</div>
<div class="location">Plant two, Hamburg</div>
<a href="mailto:sales@acme.example.org">sales@acme.example.org</a>
<span>support@acme.example.org</span>
<span>noreply@acme.example.org</span>
<span>sales@acme.example.org</span>
<span>Call us: +49 89 1234 5678</span>
<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
<a href="https://x.com/acmetools">X</a>
<div class="industry">Industrial manufacturing</div>
</body>
</html>`

func TestExtractSignalsFullPage(t *testing.T) {
	result := ExtractSignals(samplePage, "https://www.acme.example.org")

	assert.Equal(t, "Acme Tools GmbH", result.CompanyName, "title wins over h1 and metas")
	assert.Equal(t, "Acme builds precision hand tools for industrial customers.", result.Description)

	assert.Equal(t, []string{"sales@acme.example.org", "support@acme.example.org"}, result.ContactEmails,
		"junk addresses dropped, duplicates dropped, first-seen order kept")
	require.NotEmpty(t, result.Phones)

	assert.Equal(t, []string{"Industriestrasse 5, 80331 Munich", "Plant two, Hamburg"}, result.Addresses)

	assert.Equal(t, "https://www.linkedin.com/company/acme", result.SocialMedia.LinkedIn)
	assert.Equal(t, "https://x.com/acmetools", result.SocialMedia.Twitter, "x.com counts as twitter")
	assert.Empty(t, result.SocialMedia.Facebook)

	assert.Equal(t, "Industrial manufacturing", result.BusinessInfo.Industry)
	assert.Equal(t, "1987", result.BusinessInfo.FoundedYear)
	assert.Equal(t, "250", result.BusinessInfo.Employees)
}

func TestExtractNameFallsBackThroughCandidates(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"h1 when no title", `<html><body><h1>Beta Corp</h1></body></html>`, "Beta Corp"},
		{"brand class when no headings", `<html><body><div class="brand-mark">Gamma Inc</div></body></html>`, "Gamma Inc"},
		{"og site name", `<html><head><meta property="og:site_name" content="Delta"></head><body></body></html>`, "Delta"},
		{"domain label last", `<html><body></body></html>`, "epsilon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ExtractSignals(tc.html, "https://www.epsilon.example.org")
			assert.Equal(t, tc.want, result.CompanyName)
		})
	}
}

func TestExtractDescriptionFallsBackToFirstParagraph(t *testing.T) {
	html := `<html><body><p>We make widgets.</p><p>Second paragraph.</p></body></html>`
	result := ExtractSignals(html, "https://widgets.example.org")

	assert.Equal(t, "We make widgets.", result.Description)
}

func TestExtractEmailsFiltersJunk(t *testing.T) {
	html := `a@example.com b@test.com no-reply@real.org info@real.org info@real.org`

	assert.Equal(t, []string{"info@real.org"}, extractEmails(html))
}

func TestDomainLabel(t *testing.T) {
	assert.Equal(t, "acme", domainLabel("https://www.acme.co.uk/about"))
	assert.Equal(t, "acme", domainLabel("http://acme.com"))
	assert.Equal(t, UnknownCompany, domainLabel("not a url at all %"))
	assert.Equal(t, UnknownCompany, domainLabel("/relative/path"))
}

func TestCleanTextCollapsesAndTruncates(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("  a\n\tb   c  "))

	long := strings.Repeat("ä", maxTextLen+100)
	got := cleanText(long)
	assert.Equal(t, maxTextLen, len([]rune(got)), "truncation counts runes, not bytes")
}

func TestExtractSignalsEmptyPage(t *testing.T) {
	result := ExtractSignals("", "https://empty.example.org")

	assert.Equal(t, "empty", result.CompanyName)
	assert.Empty(t, result.Description)
	assert.Empty(t, result.ContactEmails)
	assert.Empty(t, result.Phones)
	assert.Empty(t, result.Addresses)
	assert.False(t, result.SocialMedia.Any())
}
