package report

import (
	"encoding/json"
	"time"

	"github.com/zhaidewei/active-info-daily/internal/curate"
	"github.com/zhaidewei/active-info-daily/internal/model"
)

// ItemPayload is the persisted JSON shape of one signal item.
type ItemPayload struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Category    string  `json:"category"`
	Summary     string  `json:"summary,omitempty"`
	Score       float64 `json:"score"`
	PublishedAt string  `json:"published_at,omitempty"`
}

// Payload is the machine-readable companion to the markdown report. It
// is also the record later runs read back to rebuild novelty history.
type Payload struct {
	ReportDate         string               `json:"report_date"`
	Analysis           model.AnalysisResult `json:"analysis"`
	IngestStats        model.IngestStats    `json:"ingest_stats"`
	TrendRows          []string             `json:"trend_rows"`
	TopItems           []ItemPayload        `json:"top_items"`
	AnalysisInputItems []ItemPayload        `json:"analysis_input_items"`
	GeneratedAt        string               `json:"generated_at"`
}

func toItemPayloads(items []model.SignalItem) []ItemPayload {
	out := make([]ItemPayload, 0, len(items))
	for _, item := range items {
		payload := ItemPayload{
			Title:    item.Title,
			URL:      item.URL,
			Source:   item.Source,
			Category: item.Category,
			Summary:  item.Summary,
			Score:    item.Score,
		}
		if !item.PublishedAt.IsZero() {
			payload.PublishedAt = item.PublishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, payload)
	}
	return out
}

// BuildJSONPayload serializes one curated run for storage.
func BuildJSONPayload(result *curate.Result) (string, error) {
	payload := Payload{
		ReportDate:         result.DateKey,
		Analysis:           result.Analysis,
		IngestStats:        result.Stats,
		TrendRows:          result.TrendRows,
		TopItems:           toItemPayloads(result.TopItems),
		AnalysisInputItems: toItemPayloads(result.Shortlist),
		GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// ParsePayload decodes a stored report payload.
func ParsePayload(raw string) (Payload, error) {
	var payload Payload
	err := json.Unmarshal([]byte(raw), &payload)
	return payload, err
}

// Accumulate feeds this report's URLs, titles and narrative lines into
// a novelty history snapshot.
func (p Payload) Accumulate(hist *curate.History) {
	for _, item := range p.TopItems {
		hist.AddURL(item.URL)
		hist.AddTitle(item.Title)
	}
	for _, group := range [][]string{
		p.Analysis.Breakthroughs,
		p.Analysis.InvestmentSignals,
		p.Analysis.OverlookedTrends,
		p.Analysis.Watchlist,
	} {
		for _, line := range group {
			hist.AddLine(line)
		}
	}
}
