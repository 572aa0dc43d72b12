package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds all runtime configuration parameters
type Config struct {
	// Fetching
	FetchTimeoutMs int    `json:"fetch_timeout_ms"`
	MaxPages       int    `json:"max_pages"` // reserved: the crawler fetches one page per site
	UserAgent      string `json:"user_agent"`
	CrawlDelayMs   int    `json:"crawl_delay_ms"`

	// Google Custom Search
	GoogleAPIKey         string `json:"google_api_key"`
	GoogleSearchEngineID string `json:"google_search_engine_id"`
	SearchMaxPerWindow   int    `json:"search_max_per_window"`
	SearchWindowSec      int    `json:"search_window_sec"`

	// Optional search refinement, forwarded to the API as-is
	SearchGeo          string `json:"search_geo"`
	SearchLang         string `json:"search_lang"`
	SearchLangRestrict string `json:"search_lang_restrict"`
	SearchCountry      string `json:"search_country"`
	SearchDateRestrict string `json:"search_date_restrict"`

	// AI analyzer (OpenAI-compatible endpoint)
	AnalyzerAPIKey  string `json:"analyzer_api_key"`
	AnalyzerBaseURL string `json:"analyzer_base_url"`
	AnalyzerModel   string `json:"analyzer_model"`

	// Output
	DBPath      string `json:"db_path"`
	MetricsPath string `json:"metrics_path"`
}

// LoadConfig reads and validates configuration from a JSON file.
// A missing file is not an error: defaults plus environment credentials
// are enough to crawl explicit URLs.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unspecified fields
func applyDefaults(cfg *Config) {
	if cfg.FetchTimeoutMs == 0 {
		cfg.FetchTimeoutMs = 30000
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "LeadWeaver-Crawler/1.0"
	}
	if cfg.CrawlDelayMs == 0 {
		cfg.CrawlDelayMs = 1000
	}
	if cfg.SearchMaxPerWindow == 0 {
		cfg.SearchMaxPerWindow = 40
	}
	if cfg.SearchWindowSec == 0 {
		cfg.SearchWindowSec = 60
	}
	if cfg.SearchDateRestrict == "" {
		cfg.SearchDateRestrict = "m18"
	}
	if cfg.AnalyzerBaseURL == "" {
		cfg.AnalyzerBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	}
	if cfg.AnalyzerModel == "" {
		cfg.AnalyzerModel = "qwen-plus"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "leads.db"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "metrics.log"
	}
}

// applyEnv overlays credentials and refinement parameters from the
// environment. Environment values win over the config file so deployments
// can keep secrets out of it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		cfg.GoogleSearchEngineID = v
	}
	if v := os.Getenv("CSE_GL"); v != "" {
		cfg.SearchGeo = v
	}
	if v := os.Getenv("CSE_HL"); v != "" {
		cfg.SearchLang = v
	}
	if v := os.Getenv("CSE_LR"); v != "" {
		cfg.SearchLangRestrict = v
	}
	if v := os.Getenv("CSE_CR"); v != "" {
		cfg.SearchCountry = v
	}
	if v := os.Getenv("CSE_DATE"); v != "" {
		cfg.SearchDateRestrict = v
	}
	if v := os.Getenv("QWEN_API_KEY"); v != "" {
		cfg.AnalyzerAPIKey = v
	}
}

// validate checks that required fields are present and values are sensible
func validate(cfg *Config) error {
	if cfg.FetchTimeoutMs < 1000 {
		return fmt.Errorf("fetch_timeout_ms must be >= 1000")
	}
	if cfg.CrawlDelayMs < 0 {
		return fmt.Errorf("crawl_delay_ms must be >= 0")
	}
	if cfg.SearchMaxPerWindow < 1 {
		return fmt.Errorf("search_max_per_window must be >= 1")
	}
	if cfg.SearchWindowSec < 1 {
		return fmt.Errorf("search_window_sec must be >= 1")
	}
	if cfg.UserAgent == "" {
		return fmt.Errorf("user_agent is required")
	}
	return nil
}
