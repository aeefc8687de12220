package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// AnalyzerClient produces the four narrative bullet lists plus an
// overview from a ranked shortlist. Callers must treat any error as a
// cue to fall back to the heuristic analyzer.
type AnalyzerClient interface {
	Analyze(ctx context.Context, dateKey string, items []model.SignalItem) (model.AnalysisResult, error)
}

const analysisSummaryChars = 450

type analysisItem struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	URL      string  `json:"url"`
	Summary  string  `json:"summary"`
}

func buildAnalysisItems(items []model.SignalItem) []analysisItem {
	payload := make([]analysisItem, len(items))
	for i, item := range items {
		summary := item.Summary
		if len(summary) > analysisSummaryChars {
			summary = summary[:analysisSummaryChars]
		}
		payload[i] = analysisItem{
			ID:       i + 1,
			Title:    item.Title,
			Source:   item.Source,
			Category: item.Category,
			Score:    item.Score,
			URL:      item.URL,
			Summary:  summary,
		}
	}
	return payload
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

type analysisPayload struct {
	Overview          json.RawMessage `json:"overview"`
	Breakthroughs     []string        `json:"breakthroughs"`
	InvestmentSignals []string        `json:"investment_signals"`
	OverlookedTrends  []string        `json:"overlooked_trends"`
	Watchlist         []string        `json:"watchlist"`
}

func (p analysisPayload) overviewText() string {
	if len(p.Overview) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(p.Overview, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(p.Overview, &many); err == nil {
		kept := make([]string, 0, len(many))
		for _, line := range many {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				kept = append(kept, trimmed)
			}
		}
		return strings.Join(kept, "\n")
	}
	return ""
}

// parseAnalysis converts a model reply into an AnalysisResult, dropping
// negative lines and lines without a positive or innovation hint, and
// backfilling empty sections from the shortlist titles.
func parseAnalysis(raw string, items []model.SignalItem) (model.AnalysisResult, error) {
	var parsed analysisPayload
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &parsed); err != nil {
		return model.AnalysisResult{}, err
	}

	result := model.AnalysisResult{
		Overview:          parsed.overviewText(),
		Breakthroughs:     cleanLines(parsed.Breakthroughs, 10, false),
		InvestmentSignals: cleanLines(parsed.InvestmentSignals, 10, false),
		OverlookedTrends:  cleanLines(parsed.OverlookedTrends, 10, true),
		Watchlist:         cleanLines(parsed.Watchlist, 12, true),
	}

	if len(result.Breakthroughs) == 0 {
		result.Breakthroughs = fallbackBullets(items, 3, "积极进展：")
	}
	if len(result.InvestmentSignals) == 0 {
		result.InvestmentSignals = fallbackBullets(items, 4, "增量机会：")
	}
	if len(result.OverlookedTrends) == 0 {
		trends := result.InvestmentSignals
		if len(trends) > 6 {
			trends = trends[:6]
		}
		result.OverlookedTrends = trends
	}

	result.Breakthroughs = capLines(result.Breakthroughs, 8)
	result.InvestmentSignals = capLines(result.InvestmentSignals, 8)
	result.OverlookedTrends = capLines(result.OverlookedTrends, 8)
	result.Watchlist = capLines(result.Watchlist, 10)
	return result, nil
}

func fallbackBullets(items []model.SignalItem, limit int, prefix string) []string {
	var out []string
	for _, item := range items {
		if len(out) >= limit {
			break
		}
		if isNegativeSignal(item.Title) {
			continue
		}
		out = append(out, prefix+item.Title)
	}
	return out
}

func capLines(lines []string, limit int) []string {
	if len(lines) > limit {
		return lines[:limit]
	}
	return lines
}

func cleanLines(rows []string, limit int, requireInnovation bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range rows {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		if isNegativeSignal(line) {
			continue
		}
		if !isPositiveOrInnovative(line, requireInnovation) {
			continue
		}
		seen[key] = true
		out = append(out, line)
		if len(out) >= limit {
			break
		}
	}
	return out
}
