package crawler

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxTextLen bounds every extracted text field to keep downstream
// payloads small.
const maxTextLen = 500

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe      = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}|\+?[0-9]{1,4}[-.\s]?[0-9]{1,4}[-.\s]?[0-9]{1,4}[-.\s]?[0-9]{1,9}`)
	employeesRe  = regexp.MustCompile(`(?i)(\d+[-\s]*\d*)\s*(?:employees?|staff|people)`)
	foundedRe    = regexp.MustCompile(`(?i)(?:founded|established|since)\s*:?\s*(\d{4})`)
)

// Emails matching these substrings are placeholders or unmonitored inboxes.
var junkEmailMarkers = []string{"example.com", "test.com", "noreply", "no-reply"}

// ExtractSignals parses fetched HTML and fills the best-effort signal
// fields of a CrawlResult. Extraction cannot fail: every field defaults to
// empty when nothing on the page matches.
func ExtractSignals(html, sourceURL string) *CrawlResult {
	result := &CrawlResult{
		CompanyName:   domainLabel(sourceURL),
		Website:       sourceURL,
		ContactEmails: extractEmails(html),
		Phones:        extractPhones(html),
		Addresses:     []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Unparseable markup: keep whatever the raw-text passes found
		return result
	}

	result.CompanyName = extractName(doc, sourceURL)
	result.Description = extractDescription(doc)
	result.Addresses = extractAddresses(doc)
	result.SocialMedia = extractSocialMedia(doc)
	result.BusinessInfo = extractBusinessInfo(doc)

	return result
}

// extractName tries page title, first heading, brand-hinting elements and
// site-name metas in that order; the first non-empty candidate wins. Falls
// back to the registrable domain label.
func extractName(doc *goquery.Document, sourceURL string) string {
	candidates := []func() string{
		func() string { return doc.Find("title").First().Text() },
		func() string { return doc.Find("h1").First().Text() },
		func() string {
			return doc.Find(`[class*="company"], [class*="brand"], [class*="logo"]`).First().Text()
		},
		func() string { return metaContent(doc, `meta[property="og:site_name"]`) },
		func() string { return metaContent(doc, `meta[name="application-name"]`) },
	}

	for _, candidate := range candidates {
		if name := cleanText(candidate()); name != "" {
			return name
		}
	}

	return domainLabel(sourceURL)
}

func extractDescription(doc *goquery.Document) string {
	candidates := []func() string{
		func() string { return metaContent(doc, `meta[name="description"]`) },
		func() string { return metaContent(doc, `meta[property="og:description"]`) },
		func() string { return doc.Find(".about, .description, .intro, .overview").First().Text() },
		func() string { return doc.Find("p").First().Text() },
	}

	for _, candidate := range candidates {
		if desc := cleanText(candidate()); desc != "" {
			return desc
		}
	}

	return ""
}

// extractEmails scans the raw markup so addresses in scripts and
// mailto: hrefs are caught too. Junk addresses are dropped; order of
// first appearance is preserved.
func extractEmails(html string) []string {
	matches := emailRe.FindAllString(html, -1)

	emails := make([]string, 0, len(matches))
	seen := make(map[string]bool)

	for _, email := range matches {
		if seen[email] || isJunkEmail(email) {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}

	return emails
}

func isJunkEmail(email string) bool {
	for _, marker := range junkEmailMarkers {
		if strings.Contains(email, marker) {
			return true
		}
	}
	return false
}

func extractPhones(html string) []string {
	matches := phoneRe.FindAllString(html, -1)

	phones := make([]string, 0, len(matches))
	seen := make(map[string]bool)

	for _, phone := range matches {
		phone = strings.TrimSpace(phone)
		if phone == "" || seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
	}

	return phones
}

func extractAddresses(doc *goquery.Document) []string {
	addresses := []string{}
	seen := make(map[string]bool)

	selector := `.address, .location, .contact-address, [class*="address"], [class*="location"]`
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		addr := cleanText(sel.Text())
		if addr == "" || seen[addr] {
			return
		}
		seen[addr] = true
		addresses = append(addresses, addr)
	})

	return addresses
}

// extractSocialMedia keeps the first anchor per network.
func extractSocialMedia(doc *goquery.Document) SocialMedia {
	social := SocialMedia{}

	social.LinkedIn = firstHref(doc, `a[href*="linkedin.com"]`)
	social.Facebook = firstHref(doc, `a[href*="facebook.com"]`)
	social.Twitter = firstHref(doc, `a[href*="twitter.com"], a[href*="x.com"]`)
	social.Instagram = firstHref(doc, `a[href*="instagram.com"]`)

	return social
}

func extractBusinessInfo(doc *goquery.Document) BusinessInfo {
	info := BusinessInfo{}

	if industry := cleanText(doc.Find(`[class*="industry"], [class*="sector"]`).First().Text()); industry != "" {
		info.Industry = industry
	} else if industry := cleanText(metaContent(doc, `meta[name="industry"]`)); industry != "" {
		info.Industry = industry
	}

	text := doc.Text()
	if m := employeesRe.FindStringSubmatch(text); m != nil {
		info.Employees = strings.TrimSpace(m[1])
	}
	if m := foundedRe.FindStringSubmatch(text); m != nil {
		info.FoundedYear = m[1]
	}

	return info
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

func firstHref(doc *goquery.Document, selector string) string {
	href, _ := doc.Find(selector).First().Attr("href")
	return href
}

// domainLabel derives a fallback company name from the URL host:
// strip www. and take the first label. Returns the unknown sentinel when
// the URL has no usable host.
func domainLabel(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return UnknownCompany
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if host == "" {
		return UnknownCompany
	}

	return strings.Split(host, ".")[0]
}

// cleanText collapses whitespace runs to single spaces, trims, and
// truncates to maxTextLen characters.
func cleanText(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > maxTextLen {
		s = string([]rune(s)[:maxTextLen])
	}

	return s
}
