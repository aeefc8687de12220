package curate

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

func TestDedupe_SameURLDifferentTracking(t *testing.T) {
	cfg := DefaultConfig()
	items := []model.SignalItem{
		{Title: "NVIDIA posts record revenue", URL: "https://example.com/nvda-earnings", Summary: "short"},
		{Title: "NVIDIA earnings recap", URL: "https://Example.com/nvda-earnings/?utm_source=rss", Summary: "a much longer recap of the quarter"},
	}

	unique, stats := Dedupe(items, cfg)

	assert.Equal(t, 1, len(unique))
	assert.Equal(t, 2, stats.RawItems)
	assert.Equal(t, 1, stats.UniqueItems)
	assert.Equal(t, 1, stats.DuplicatesRemoved)

	assert.Equal(t, "NVIDIA posts record revenue", unique[0].Title)
	assert.Equal(t, "a much longer recap of the quarter", unique[0].Summary)
}

func TestDedupe_NearIdenticalTitles(t *testing.T) {
	cfg := DefaultConfig()
	items := []model.SignalItem{
		{Title: "OpenAI releases new reasoning model for enterprise agents", URL: "https://a.example.com/1"},
		{Title: "OpenAI releases new reasoning model for enterprise agents!", URL: "https://b.example.com/2"},
	}

	unique, stats := Dedupe(items, cfg)

	assert.Equal(t, 1, len(unique))
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, "https://a.example.com/1", unique[0].URL)
}

func TestDedupe_DistinctStoriesSurvive(t *testing.T) {
	cfg := DefaultConfig()
	items := []model.SignalItem{
		{Title: "ERCOT approves new capacity market rules", URL: "https://example.com/ercot"},
		{Title: "Solana mainnet upgrade ships with lower fees", URL: "https://example.com/solana"},
		{Title: "Microsoft signs nuclear power purchase agreement", URL: "https://example.com/msft-ppa"},
	}

	unique, stats := Dedupe(items, cfg)

	assert.Equal(t, 3, len(unique))
	assert.Equal(t, 0, stats.DuplicatesRemoved)
	assert.Equal(t, "ERCOT approves new capacity market rules", unique[0].Title)
}

func TestDedupe_SurvivorAbsorbsURLAndLaterTime(t *testing.T) {
	cfg := DefaultConfig()
	earlier := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	items := []model.SignalItem{
		{Title: "Bitcoin ETF inflows hit a monthly high", PublishedAt: earlier},
		{Title: "Bitcoin ETF inflows hit a monthly high", URL: "https://example.com/etf", PublishedAt: later},
	}

	unique, _ := Dedupe(items, cfg)

	assert.Equal(t, 1, len(unique))
	assert.Equal(t, "https://example.com/etf", unique[0].URL)
	assert.Equal(t, later, unique[0].PublishedAt)
}

func TestDedupe_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	items := []model.SignalItem{
		{Title: "Grid congestion spikes in PJM territory", URL: "https://example.com/pjm"},
		{Title: "Grid congestion spikes in PJM territory", URL: "https://example.com/pjm"},
		{Title: "Stablecoin settlement volume keeps climbing", URL: "https://example.com/stable"},
	}

	once, _ := Dedupe(items, cfg)
	twice, stats := Dedupe(once, cfg)

	assert.Equal(t, len(once), len(twice))
	assert.Equal(t, 0, stats.DuplicatesRemoved)
}
