package crawler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/leadweaver/leadweaver/internal/config"
	"github.com/leadweaver/leadweaver/internal/search"
)

// SearchClient discovers candidate URLs for a company query. Satisfied by
// *search.Searcher; tests substitute a fake.
type SearchClient interface {
	Search(ctx context.Context, q search.Query) ([]search.Result, error)
}

// Crawler drives the fetch → extract → score pipeline across single
// companies and batches. Batches run strictly sequentially: politeness
// delays are only meaningful when requests are serialized, and the search
// API's rate limit is global.
type Crawler struct {
	cfg             *config.Config
	fetcher         *Fetcher
	searcher        SearchClient
	delay           *rate.Limiter
	metricsCallback func(pagesFetched, pagesFailed int, fetchTime time.Duration)
}

// NewCrawler creates a crawler instance. searcher may be nil when only
// explicit-URL crawling is needed; metricsCallback may be nil.
func NewCrawler(cfg *config.Config, searcher SearchClient, metricsCallback func(int, int, time.Duration)) *Crawler {
	delay := rate.NewLimiter(rate.Inf, 1)
	if cfg.CrawlDelayMs > 0 {
		delay = rate.NewLimiter(rate.Every(time.Duration(cfg.CrawlDelayMs)*time.Millisecond), 1)
	}

	return &Crawler{
		cfg:             cfg,
		fetcher:         NewFetcher(cfg),
		searcher:        searcher,
		delay:           delay,
		metricsCallback: metricsCallback,
	}
}

// CrawlOne runs the pipeline for a single URL. A fetch failure is not an
// error to the caller: it degrades into a CrawlResult with Error set and
// all-zero scores.
func (c *Crawler) CrawlOne(ctx context.Context, url string) *CrawlResult {
	return c.crawlOne(ctx, url, 0)
}

func (c *Crawler) crawlOne(_ context.Context, url string, rank int) *CrawlResult {
	logrus.Infof("Crawling %s", url)

	start := time.Now()
	html, err := c.fetcher.Fetch(url)
	elapsed := time.Since(start)
	if err != nil {
		logrus.Warnf("Fetch failed for %s: %v", url, err)
		c.reportMetrics(0, 1, elapsed)
		return failedResult(url, rank, err)
	}
	c.reportMetrics(1, 0, elapsed)

	result := ExtractSignals(html, url)
	result.Score = ScoreResult(result, html)
	result.CrawledAt = time.Now()
	result.SearchRank = rank

	logrus.Infof("Crawled %s: %s (score %d)", url, result.CompanyName, result.Score.Overall)
	return result
}

// CrawlMany crawls each URL in order with a politeness delay between
// requests and returns the results sorted by overall score descending.
// Per-URL failures are captured in their result, never aborting the batch;
// only context cancellation stops it early, returning what was gathered.
func (c *Crawler) CrawlMany(ctx context.Context, urls []string) ([]*CrawlResult, error) {
	logrus.Infof("Batch crawl of %d sites", len(urls))

	results := make([]*CrawlResult, 0, len(urls))
	for i, url := range urls {
		if err := c.delay.Wait(ctx); err != nil {
			sortByScore(results)
			return results, err
		}
		results = append(results, c.crawlOne(ctx, url, i+1))
	}

	sortByScore(results)
	return results, nil
}

// SearchAndCrawl discovers candidate sites for the query, then crawls
// them like CrawlMany with each result carrying its 1-based search rank.
// When the primary search fails with an API error and a keyword exists,
// one simplified retry (first keyword only) runs before surfacing the
// failure. The final list is sorted by score, not by search rank.
func (c *Crawler) SearchAndCrawl(ctx context.Context, q search.Query) ([]*CrawlResult, error) {
	if c.searcher == nil {
		return nil, errors.New("crawler: no search client configured")
	}

	hits, err := c.searcher.Search(ctx, q)
	if err != nil {
		var apiErr *search.APIError
		if !errors.As(err, &apiErr) || len(q.Keywords) == 0 {
			return nil, err
		}

		logrus.Warnf("Search failed (%v), retrying with first keyword only", err)
		simplified := search.Query{
			Keywords:   q.Keywords[:1],
			MaxResults: q.MaxResults,
		}
		hits, err = c.searcher.Search(ctx, simplified)
		if err != nil {
			return nil, fmt.Errorf("all search strategies failed: %w", err)
		}
	}

	logrus.Infof("Search produced %d candidate sites", len(hits))

	results := make([]*CrawlResult, 0, len(hits))
	for i, hit := range hits {
		if err := c.delay.Wait(ctx); err != nil {
			sortByScore(results)
			return results, err
		}
		results = append(results, c.crawlOne(ctx, hit.Link, i+1))
	}

	sortByScore(results)
	return results, nil
}

func (c *Crawler) reportMetrics(fetched, failed int, fetchTime time.Duration) {
	if c.metricsCallback != nil {
		c.metricsCallback(fetched, failed, fetchTime)
	}
}

// sortByScore orders results by overall score descending. Stable so
// equally scored results keep their input order.
func sortByScore(results []*CrawlResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score.Overall > results[j].Score.Overall
	})
}
