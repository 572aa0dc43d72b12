package storage

import "time"

// Lead is a persisted crawl result, one row per website.
type Lead struct {
	LeadID       int
	CompanyName  string
	Website      string
	Description  string
	Emails       []string
	Phones       []string
	Addresses    []string
	SocialMedia  map[string]string
	BusinessInfo map[string]string
	Overall      int
	Relevance    int
	Credibility  int
	Contact      int
	Content      int
	Technical    int
	SearchRank   int
	CrawlError   string
	CrawledAt    time.Time
	CreatedAt    time.Time
}
