package crawler

import "time"

// UnknownCompany is the sentinel name used when neither the page nor the
// URL identifies the company.
const UnknownCompany = "unknown"

// SocialMedia holds the first link found per network.
type SocialMedia struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Any reports whether at least one social link was found.
func (s SocialMedia) Any() bool {
	return s.LinkedIn != "" || s.Facebook != "" || s.Twitter != "" || s.Instagram != ""
}

// BusinessInfo holds coarse business attributes scraped from the page.
type BusinessInfo struct {
	Industry    string `json:"industry,omitempty"`
	FoundedYear string `json:"foundedYear,omitempty"`
	Employees   string `json:"employees,omitempty"`
	Revenue     string `json:"revenue,omitempty"`
}

// Score is the five-dimension quality assessment of a crawled site.
// Overall is a fixed weighted combination of the other five dimensions;
// every field stays within [0,100].
type Score struct {
	Overall     int `json:"overall"`
	Relevance   int `json:"relevance"`
	Credibility int `json:"credibility"`
	Contact     int `json:"contact"`
	Content     int `json:"content"`
	Technical   int `json:"technical"`
}

// CrawlResult is the record a crawl produces for one site. When Error is
// set the site could not be usefully analyzed: every signal collection is
// empty and every score is zero, so ranking treats it as lowest priority.
type CrawlResult struct {
	CompanyName   string       `json:"companyName"`
	Website       string       `json:"website"`
	Description   string       `json:"description"`
	ContactEmails []string     `json:"contactEmails"`
	Phones        []string     `json:"phones"`
	Addresses     []string     `json:"addresses"`
	SocialMedia   SocialMedia  `json:"socialMedia"`
	BusinessInfo  BusinessInfo `json:"businessInfo"`
	Score         Score        `json:"score"`
	CrawledAt     time.Time    `json:"crawledAt"`
	SearchRank    int          `json:"searchRank,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// failedResult builds the uniform degraded record for a site that could
// not be fetched or parsed.
func failedResult(url string, rank int, err error) *CrawlResult {
	return &CrawlResult{
		CompanyName:   UnknownCompany,
		Website:       url,
		ContactEmails: []string{},
		Phones:        []string{},
		Addresses:     []string{},
		CrawledAt:     time.Now(),
		SearchRank:    rank,
		Error:         err.Error(),
	}
}
