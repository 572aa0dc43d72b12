package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/leadweaver/leadweaver/internal/config"
)

// ErrMissingCredentials means the Google API key or search engine ID is
// not configured. Surfaced to the caller; nothing to retry.
var ErrMissingCredentials = errors.New("search: missing Google API credentials")

// APIError reports a non-success response from the search API after a
// well-formed request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API error: %d %s", e.Status, e.Message)
}

// Result is one search hit, normalized to the fields the crawler needs.
type Result struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

// Searcher issues keyword queries against the Google Custom Search JSON
// API through a rolling-window rate limiter.
type Searcher struct {
	cfg     *config.Config
	limiter *Limiter
	svc     *customsearch.Service
	opts    []option.ClientOption
}

// NewSearcher creates a searcher for the given configuration. Extra client
// options are appended after the API key; tests use option.WithEndpoint to
// point at a fake server.
func NewSearcher(cfg *config.Config, opts ...option.ClientOption) *Searcher {
	return &Searcher{
		cfg:     cfg,
		limiter: NewLimiter(cfg.SearchMaxPerWindow, time.Duration(cfg.SearchWindowSec)*time.Second),
		opts:    opts,
	}
}

func (s *Searcher) service(ctx context.Context) (*customsearch.Service, error) {
	if s.svc != nil {
		return s.svc, nil
	}

	opts := append([]option.ClientOption{option.WithAPIKey(s.cfg.GoogleAPIKey)}, s.opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	s.svc = svc
	return svc, nil
}

// Search runs the full query and, when it comes back empty and at least
// one keyword was supplied, retries once with the simplified query. An
// empty result list from both attempts is not an error.
func (s *Searcher) Search(ctx context.Context, q Query) ([]Result, error) {
	if s.cfg.GoogleAPIKey == "" || s.cfg.GoogleSearchEngineID == "" {
		return nil, ErrMissingCredentials
	}

	if err := s.limiter.Admit(ctx); err != nil {
		return nil, err
	}

	primary := buildQueryString(q)
	logrus.Infof("Search: %s", primary)

	results, err := s.run(ctx, primary, q.resultCount(), true)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 && len(q.Keywords) > 0 {
		fallback := simplifiedQueryString(q)
		logrus.Infof("Search returned no items, retrying simplified: %s", fallback)

		results, err = s.run(ctx, fallback, q.resultCount(), false)
		if err != nil {
			// The primary request was well-formed and answered; a failed
			// fallback degrades to an empty result set.
			logrus.Warnf("Simplified search failed: %v", err)
			return []Result{}, nil
		}
	}

	logrus.Infof("Search returned %d results", len(results))
	return results, nil
}

// run issues a single API request. Refinement parameters apply only to
// the primary query; the degraded query stays maximally simple.
func (s *Searcher) run(ctx context.Context, query string, num int64, refine bool) ([]Result, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Cse.List().
		Context(ctx).
		Cx(s.cfg.GoogleSearchEngineID).
		Q(query).
		Num(num)

	if refine {
		if s.cfg.SearchGeo != "" {
			call = call.Gl(s.cfg.SearchGeo)
		}
		if s.cfg.SearchLang != "" {
			call = call.Hl(s.cfg.SearchLang)
		}
		if s.cfg.SearchLangRestrict != "" {
			call = call.Lr(s.cfg.SearchLangRestrict)
		}
		if s.cfg.SearchCountry != "" {
			call = call.Cr(s.cfg.SearchCountry)
		}
		if s.cfg.SearchDateRestrict != "" {
			call = call.DateRestrict(s.cfg.SearchDateRestrict)
		}
	}

	resp, err := call.Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &APIError{Status: gerr.Code, Message: gerr.Message}
		}
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	// Absence of items means zero results, not an error
	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		})
	}

	return results, nil
}
