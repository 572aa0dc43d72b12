package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)

	assert.Equal(t, 30000, cfg.FetchTimeoutMs)
	assert.Equal(t, "LeadWeaver-Crawler/1.0", cfg.UserAgent)
	assert.Equal(t, 1000, cfg.CrawlDelayMs)
	assert.Equal(t, 40, cfg.SearchMaxPerWindow)
	assert.Equal(t, 60, cfg.SearchWindowSec)
	assert.Equal(t, "m18", cfg.SearchDateRestrict)
	assert.Equal(t, "qwen-plus", cfg.AnalyzerModel)
	assert.Equal(t, "leads.db", cfg.DBPath)
	assert.Equal(t, "metrics.log", cfg.MetricsPath)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"fetch_timeout_ms": 10000,
		"user_agent": "custom-agent",
		"crawl_delay_ms": 250,
		"search_max_per_window": 10,
		"google_api_key": "file-key"
	}`)

	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.FetchTimeoutMs)
	assert.Equal(t, "custom-agent", cfg.UserAgent)
	assert.Equal(t, 250, cfg.CrawlDelayMs)
	assert.Equal(t, 10, cfg.SearchMaxPerWindow)
	assert.Equal(t, "file-key", cfg.GoogleAPIKey)
	assert.Equal(t, 60, cfg.SearchWindowSec, "unset fields still get defaults")
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `{"google_api_key": "file-key", "search_date_restrict": "m6"}`)

	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("GOOGLE_SEARCH_ENGINE_ID", "env-cx")
	t.Setenv("CSE_GL", "de")
	t.Setenv("CSE_DATE", "y1")
	t.Setenv("QWEN_API_KEY", "env-qwen")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.GoogleAPIKey)
	assert.Equal(t, "env-cx", cfg.GoogleSearchEngineID)
	assert.Equal(t, "de", cfg.SearchGeo)
	assert.Equal(t, "y1", cfg.SearchDateRestrict)
	assert.Equal(t, "env-qwen", cfg.AnalyzerAPIKey)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"timeout too small", `{"fetch_timeout_ms": 500}`},
		{"negative delay", `{"crawl_delay_ms": -5}`},
		{"negative window cap", `{"search_max_per_window": -1}`},
		{"negative window", `{"search_window_sec": -1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRejectsMalformedJSON(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, `{not json`))
	assert.Error(t, err)
}
