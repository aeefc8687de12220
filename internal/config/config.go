package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhaidewei/active-info-daily/pkg/news"
)

// Settings holds the environment-driven runtime knobs. Source feeds
// live in the YAML config instead; see LoadSources.
type Settings struct {
	SnapshotDir      string
	SourceConfigPath string

	AnalysisProvider string
	OpenAIKey        string
	AnthropicKey     string
	FinnhubKey       string

	MaxItems       int
	HistoryReports int
	RequestTimeout time.Duration
	ContextEnabled bool
	ScheduleAt     string
}

func Load() Settings {
	return Settings{
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "data/snapshots"),
		SourceConfigPath: getEnv("SOURCE_CONFIG_PATH", "config/sources.yaml"),
		AnalysisProvider: getEnv("ANALYSIS_PROVIDER", "heuristic"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		FinnhubKey:       os.Getenv("FINNHUB_API_KEY"),
		MaxItems:         getEnvInt("REPORT_MAX_ITEMS", 80),
		HistoryReports:   getEnvInt("HISTORY_REPORTS", 3),
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 15)) * time.Second,
		ContextEnabled:   getEnvBool("CONTEXT_FETCH_ENABLED", false),
		ScheduleAt:       getEnv("SCHEDULE_AT", "07:30"),
	}
}

func getEnv(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(name string, defaultValue int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid env value, using default", "name", name, "value", raw, "error", err)
		return defaultValue
	}
	return parsed
}

func getEnvBool(name string, defaultValue bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid env value, using default", "name", name, "value", raw, "error", err)
		return defaultValue
	}
	return parsed
}

// Sources is the YAML-configured collector set.
type Sources struct {
	RSSFeeds   []news.FeedConfig     `yaml:"rss_feeds"`
	Polymarket news.PolymarketConfig `yaml:"polymarket"`
	SECFilings news.SECConfig        `yaml:"sec_filings"`
	Finnhub    FinnhubSource         `yaml:"finnhub"`
}

type FinnhubSource struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

func LoadSources(path string) (Sources, error) {
	var sources Sources
	raw, err := os.ReadFile(path)
	if err != nil {
		return sources, fmt.Errorf("source config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &sources); err != nil {
		return sources, fmt.Errorf("source config: %w", err)
	}
	return sources, nil
}
