package report

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/zhaidewei/active-info-daily/internal/curate"
	"github.com/zhaidewei/active-info-daily/internal/model"
)

func sampleResult() *curate.Result {
	return &curate.Result{
		DateKey: "2026-08-27",
		TopItems: []model.SignalItem{
			{Title: "MSFT signs nuclear PPA", URL: "https://example.com/msft", Source: "Utility Dive", Category: model.CategoryPowerTrading, Score: 8.2, PublishedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)},
		},
		Shortlist: []model.SignalItem{
			{Title: "MSFT signs nuclear PPA", URL: "https://example.com/msft", Source: "Utility Dive", Category: model.CategoryPowerTrading, Score: 8.2},
		},
		Analysis: model.AnalysisResult{
			Overview:      "总览",
			Breakthroughs: []string{"核电购电协议落地"},
		},
		Stats:     model.IngestStats{RawItems: 10, UniqueItems: 8, DuplicatesRemoved: 2},
		TrendRows: []string{"电力市场交易：出现 3 次，跨 2 个来源"},
	}
}

func TestBuildJSONPayload_RoundTrip(t *testing.T) {
	raw, err := BuildJSONPayload(sampleResult())
	assert.Equal(t, nil, err)

	payload, err := ParsePayload(raw)
	assert.Equal(t, nil, err)

	assert.Equal(t, "2026-08-27", payload.ReportDate)
	assert.Equal(t, "总览", payload.Analysis.Overview)
	assert.Equal(t, 8, payload.IngestStats.UniqueItems)
	assert.Equal(t, 1, len(payload.TopItems))
	assert.Equal(t, "MSFT signs nuclear PPA", payload.TopItems[0].Title)
	assert.Equal(t, "2026-08-26T12:00:00Z", payload.TopItems[0].PublishedAt)
	assert.Equal(t, 1, len(payload.AnalysisInputItems))
	assert.Equal(t, 1, len(payload.TrendRows))
	assert.NotEqual(t, "", payload.GeneratedAt)
}

func TestParsePayload_RejectsGarbage(t *testing.T) {
	_, err := ParsePayload("not json at all")

	assert.NotEqual(t, nil, err)
}

func TestPayloadAccumulate(t *testing.T) {
	raw, err := BuildJSONPayload(sampleResult())
	assert.Equal(t, nil, err)
	payload, err := ParsePayload(raw)
	assert.Equal(t, nil, err)

	hist := curate.NewHistory()
	payload.Accumulate(hist)

	assert.Equal(t, false, hist.Empty())
	assert.Equal(t, true, hist.URLs[curate.CanonicalURL("https://example.com/msft")])
	assert.Equal(t, true, hist.Titles[curate.Signature("MSFT signs nuclear PPA")])
	assert.Equal(t, 1, len(hist.Lines))
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	items := []model.SignalItem{
		{Title: "Grid congestion spikes", URL: "https://example.com/grid", Source: "Utility Dive", Category: model.CategoryPowerTrading, PublishedAt: time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC)},
		{Title: "No timestamp item", URL: "https://example.com/x", Source: "RSS", Category: model.CategoryGeneral},
	}

	path, err := SaveSnapshot(dir, "2026-08-27", items)
	assert.Equal(t, nil, err)

	loaded, err := LoadSnapshot(path)
	assert.Equal(t, nil, err)

	assert.Equal(t, 2, len(loaded))
	assert.Equal(t, items[0].Title, loaded[0].Title)
	assert.Equal(t, true, items[0].PublishedAt.Equal(loaded[0].PublishedAt))
	assert.Equal(t, true, loaded[1].PublishedAt.IsZero())
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot("/nonexistent/snapshot.json")

	assert.NotEqual(t, nil, err)
}
