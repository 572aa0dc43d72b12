package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leadweaver/leadweaver/internal/analyzer"
	"github.com/leadweaver/leadweaver/internal/config"
	"github.com/leadweaver/leadweaver/internal/crawler"
	"github.com/leadweaver/leadweaver/internal/leadbook"
	"github.com/leadweaver/leadweaver/internal/metrics"
	"github.com/leadweaver/leadweaver/internal/search"
	"github.com/leadweaver/leadweaver/internal/storage"
	"github.com/leadweaver/leadweaver/internal/version"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	singleURL := flag.String("url", "", "crawl a single website")
	urlList := flag.String("urls", "", "comma-separated list of websites to crawl")
	importPath := flag.String("import", "", "xlsx lead book to crawl (column A name, column B website)")
	keywords := flag.String("keywords", "", "comma-separated keywords to search and crawl")
	industry := flag.String("industry", "", "industry qualifier for search")
	location := flag.String("location", "", "location qualifier for search")
	maxResults := flag.Int("max", 10, "max search results (1-10)")
	exportPath := flag.String("export", "", "write ranked results to this xlsx file")
	analyze := flag.Bool("analyze", false, "run AI lead analysis on the results")
	topN := flag.Int("top", 0, "print the N best stored leads and exit")
	flag.Parse()

	// Configure logging
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logrus.Infof("LeadWeaver v%s starting...", version.Version)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	logrus.Infof("Database initialized: %s", cfg.DBPath)

	if *topN > 0 {
		printStoredLeads(store, *topN)
		return
	}

	tracker := metrics.NewTracker()
	metricsCallback := func(pagesFetched, pagesFailed int, fetchTime time.Duration) {
		if pagesFetched > 0 {
			tracker.IncrementPagesFetched()
		}
		if pagesFailed > 0 {
			tracker.IncrementPagesFailed()
		}
		tracker.RecordFetchTime(fetchTime)
	}

	searcher := search.NewSearcher(cfg)
	c := crawler.NewCrawler(cfg, searcher, metricsCallback)

	// SIGINT/SIGTERM aborts the batch at the next inter-request delay
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, reason := run(ctx, c, tracker, runOptions{
		singleURL:  *singleURL,
		urlList:    *urlList,
		importPath: *importPath,
		keywords:   *keywords,
		industry:   *industry,
		location:   *location,
		maxResults: *maxResults,
	})

	for _, r := range results {
		if r.Error == "" {
			tracker.ObserveScore(r.Score.Overall)
		}
		if _, err := store.UpsertLead(leadFromResult(r)); err != nil {
			logrus.Warnf("Failed to persist lead %s: %v", r.Website, err)
		}
	}

	printResults(results)

	if *analyze && len(results) > 0 {
		runAnalysis(ctx, cfg, results)
	}

	if *exportPath != "" && len(results) > 0 {
		if err := leadbook.WriteResults(*exportPath, results); err != nil {
			logrus.Errorf("Failed to export results: %v", err)
		} else {
			logrus.Infof("Results exported to %s", *exportPath)
		}
	}

	logrus.Info("Final stats: " + tracker.LogProgress())
	if err := tracker.WriteToFile(cfg.MetricsPath, reason); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}
}

type runOptions struct {
	singleURL  string
	urlList    string
	importPath string
	keywords   string
	industry   string
	location   string
	maxResults int
}

// run dispatches to the crawl mode selected by the flags and returns the
// results plus the termination reason recorded in the metrics file.
func run(ctx context.Context, c *crawler.Crawler, tracker *metrics.Tracker, opts runOptions) ([]*crawler.CrawlResult, string) {
	switch {
	case opts.singleURL != "":
		return []*crawler.CrawlResult{c.CrawlOne(ctx, opts.singleURL)}, "completed"

	case opts.urlList != "":
		results, err := c.CrawlMany(ctx, splitList(opts.urlList))
		return results, reasonFor(err)

	case opts.importPath != "":
		companies, err := leadbook.ReadCompanies(opts.importPath)
		if err != nil {
			logrus.Fatalf("Failed to read lead book: %v", err)
		}

		var urls []string
		for _, company := range companies {
			if company.Website == "" {
				logrus.Warnf("Skipping %s: no website column", company.Name)
				continue
			}
			urls = append(urls, company.Website)
		}
		logrus.Infof("Imported %d companies, %d with websites", len(companies), len(urls))

		results, err := c.CrawlMany(ctx, urls)
		return results, reasonFor(err)

	case opts.keywords != "":
		query := search.Query{
			Keywords:   splitList(opts.keywords),
			Industry:   opts.industry,
			Location:   opts.location,
			MaxResults: opts.maxResults,
		}
		tracker.IncrementSearches()

		results, err := c.SearchAndCrawl(ctx, query)
		if err != nil {
			logrus.Fatalf("Search and crawl failed: %v", err)
		}
		return results, "completed"

	default:
		logrus.Fatal("Nothing to do: pass one of -url, -urls, -import or -keywords")
		return nil, ""
	}
}

func runAnalysis(ctx context.Context, cfg *config.Config, results []*crawler.CrawlResult) {
	a := analyzer.NewAnalyzer(cfg)

	for _, r := range results {
		analysis := a.Analyze(ctx, r)
		fmt.Printf("\n--- %s (%s priority) ---\n%s\n", analysis.CompanyName, analysis.Priority, analysis.Summary)
	}
}

func printStoredLeads(store *storage.Storage, n int) {
	leads, err := store.ListTopLeads(n)
	if err != nil {
		logrus.Fatalf("Failed to list leads: %v", err)
	}
	total, err := store.CountLeads()
	if err != nil {
		logrus.Fatalf("Failed to count leads: %v", err)
	}

	fmt.Printf("Top %d of %d stored leads:\n", len(leads), total)
	for i, lead := range leads {
		fmt.Printf("%2d. %-30s %s  score=%d (crawled %s)\n",
			i+1, lead.CompanyName, lead.Website, lead.Overall,
			lead.CrawledAt.Format("2006-01-02"))
	}
}

func printResults(results []*crawler.CrawlResult) {
	for i, r := range results {
		if r.Error != "" {
			fmt.Printf("%2d. %-30s %s  FAILED: %s\n", i+1, r.CompanyName, r.Website, r.Error)
			continue
		}
		fmt.Printf("%2d. %-30s %s  score=%d (rel=%d cred=%d contact=%d)\n",
			i+1, r.CompanyName, r.Website,
			r.Score.Overall, r.Score.Relevance, r.Score.Credibility, r.Score.Contact)
	}
}

func leadFromResult(r *crawler.CrawlResult) *storage.Lead {
	social := map[string]string{}
	if r.SocialMedia.LinkedIn != "" {
		social["linkedin"] = r.SocialMedia.LinkedIn
	}
	if r.SocialMedia.Facebook != "" {
		social["facebook"] = r.SocialMedia.Facebook
	}
	if r.SocialMedia.Twitter != "" {
		social["twitter"] = r.SocialMedia.Twitter
	}
	if r.SocialMedia.Instagram != "" {
		social["instagram"] = r.SocialMedia.Instagram
	}

	business := map[string]string{}
	if r.BusinessInfo.Industry != "" {
		business["industry"] = r.BusinessInfo.Industry
	}
	if r.BusinessInfo.FoundedYear != "" {
		business["foundedYear"] = r.BusinessInfo.FoundedYear
	}
	if r.BusinessInfo.Employees != "" {
		business["employees"] = r.BusinessInfo.Employees
	}
	if r.BusinessInfo.Revenue != "" {
		business["revenue"] = r.BusinessInfo.Revenue
	}

	return &storage.Lead{
		CompanyName:  r.CompanyName,
		Website:      r.Website,
		Description:  r.Description,
		Emails:       r.ContactEmails,
		Phones:       r.Phones,
		Addresses:    r.Addresses,
		SocialMedia:  social,
		BusinessInfo: business,
		Overall:      r.Score.Overall,
		Relevance:    r.Score.Relevance,
		Credibility:  r.Score.Credibility,
		Contact:      r.Score.Contact,
		Content:      r.Score.Content,
		Technical:    r.Score.Technical,
		SearchRank:   r.SearchRank,
		CrawlError:   r.Error,
		CrawledAt:    r.CrawledAt,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func reasonFor(err error) string {
	if err != nil {
		return "interrupted"
	}
	return "completed"
}
