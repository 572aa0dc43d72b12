package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// CrawlMetrics is the snapshot exported on exit.
type CrawlMetrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	SearchesIssued    int       `json:"searches_issued"`
	PagesFetched      int       `json:"pages_fetched"`
	PagesFailed       int       `json:"pages_failed"`
	LeadsScored       int       `json:"leads_scored"`
	TotalFetchTimeMs  int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs    int64     `json:"avg_fetch_time_ms"`
	AvgOverallScore   float64   `json:"avg_overall_score"`
	TerminationReason string    `json:"termination_reason"`
}

// Tracker holds and manages crawl metrics
type Tracker struct {
	mu               sync.Mutex
	data             CrawlMetrics
	totalFetchTimeMs int64
	fetchCount       int
	scoreSum         int
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: CrawlMetrics{
			StartTime: time.Now(),
		},
	}
}

// IncrementSearches increments the search-API request counter
func (t *Tracker) IncrementSearches() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.SearchesIssued++
}

// IncrementPagesFetched increments the successful fetch counter
func (t *Tracker) IncrementPagesFetched() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFetched++
}

// IncrementPagesFailed increments the failed fetch counter
func (t *Tracker) IncrementPagesFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFailed++
}

// ObserveScore records one scored lead's overall score
func (t *Tracker) ObserveScore(overall int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.LeadsScored++
	t.scoreSum += overall
}

// RecordFetchTime records a page fetch duration
func (t *Tracker) RecordFetchTime(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalFetchTimeMs += duration.Milliseconds()
	t.fetchCount++
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() CrawlMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.data
	t.finalize(&snapshot)
	return snapshot
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason
	t.finalize(&t.data)

	jsonData, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress returns a one-line progress summary for periodic logging
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Searches: %d | Pages: %d fetched, %d failed | Leads scored: %d",
		t.data.SearchesIssued,
		t.data.PagesFetched,
		t.data.PagesFailed,
		t.data.LeadsScored,
	)
}

// finalize fills the derived fields; caller holds the lock.
func (t *Tracker) finalize(m *CrawlMetrics) {
	m.TotalFetchTimeMs = t.totalFetchTimeMs
	if t.fetchCount > 0 {
		m.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}
	if m.LeadsScored > 0 {
		m.AvgOverallScore = float64(t.scoreSum) / float64(m.LeadsScored)
	}
}
