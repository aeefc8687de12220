package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

func TestCleanJSONResponse(t *testing.T) {
	wrapped := "```json\n{\"overview\": \"ok\"}\n```"
	assert.Equal(t, `{"overview": "ok"}`, cleanJSONResponse(wrapped))

	prose := "Here is the result: {\"overview\": \"ok\"} hope it helps"
	assert.Equal(t, `{"overview": "ok"}`, cleanJSONResponse(prose))

	plain := `{"overview": "ok"}`
	assert.Equal(t, plain, cleanJSONResponse(plain))
}

func TestParseAnalysis_OverviewStringOrList(t *testing.T) {
	items := []model.SignalItem{{Title: "AI partnership expands"}}

	fromString, err := parseAnalysis(`{"overview": "一句话总览", "breakthroughs": ["重大突破：模型创新落地"]}`, items)
	assert.Equal(t, nil, err)
	assert.Equal(t, "一句话总览", fromString.Overview)

	fromList, err := parseAnalysis(`{"overview": ["第一行", "第二行"], "breakthroughs": ["重大突破：模型创新落地"]}`, items)
	assert.Equal(t, nil, err)
	assert.Equal(t, "第一行\n第二行", fromList.Overview)
}

func TestParseAnalysis_DropsNegativeLines(t *testing.T) {
	items := []model.SignalItem{{Title: "AI partnership expands"}}
	raw := `{
		"breakthroughs": ["创新协议上线带来增长", "某公司遭遇诉讼与调查"],
		"investment_signals": ["record revenue growth at chip maker"],
		"overlooked_trends": ["电力交易新模式在试点"],
		"watchlist": ["tokenization pilot approval"]
	}`

	result, err := parseAnalysis(raw, items)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Breakthroughs))
	assert.Equal(t, "创新协议上线带来增长", result.Breakthroughs[0])
	assert.Equal(t, []string{"record revenue growth at chip maker"}, result.InvestmentSignals)
	assert.Equal(t, []string{"电力交易新模式在试点"}, result.OverlookedTrends)
	assert.Equal(t, []string{"tokenization pilot approval"}, result.Watchlist)
}

func TestParseAnalysis_BackfillsEmptySections(t *testing.T) {
	items := []model.SignalItem{
		{Title: "Grid upgrade approval granted"},
		{Title: "Mainnet launch ships"},
	}

	result, err := parseAnalysis(`{"overview": "ok"}`, items)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(result.Breakthroughs))
	assert.Equal(t, "积极进展：Grid upgrade approval granted", result.Breakthroughs[0])
	assert.Equal(t, "增量机会：Grid upgrade approval granted", result.InvestmentSignals[0])
	assert.Equal(t, len(result.InvestmentSignals), len(result.OverlookedTrends))
}

func TestParseAnalysis_RejectsNonJSON(t *testing.T) {
	_, err := parseAnalysis("sorry, I cannot help with that", nil)

	assert.NotEqual(t, nil, err)
}

func TestParseAnalysis_DeduplicatesLines(t *testing.T) {
	raw := `{"breakthroughs": ["创新协议上线带来增长", "创新协议上线带来增长"]}`

	result, err := parseAnalysis(raw, []model.SignalItem{{Title: "x"}})

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Breakthroughs))
}

func TestHeuristicAnalyzer_NeverFails(t *testing.T) {
	a := NewHeuristicAnalyzer()

	result, err := a.Analyze(context.Background(), "2026-08-27", nil)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(result.Overview, "2026-08-27"))
	assert.Equal(t, true, strings.Contains(result.Overview, "共扫描 0 条信号"))
}

func TestHeuristicAnalyzer_BucketsByTriggers(t *testing.T) {
	a := NewHeuristicAnalyzer()
	items := []model.SignalItem{
		{Title: "New AI model launch", Source: "TechCrunch AI", Score: 8},
		{Title: "Record revenue and new contract win", Source: "Finnhub", Score: 7},
		{Title: "Tokenization policy standard advances", Source: "CoinDesk", Score: 6},
		{Title: "Company hit by fraud lawsuit", Source: "Reuters", Score: 5},
	}

	result, err := a.Analyze(context.Background(), "2026-08-27", items)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, len(result.Breakthroughs) > 0)
	assert.Equal(t, true, strings.Contains(result.Breakthroughs[0], "（TechCrunch AI）"))
	assert.Equal(t, true, len(result.InvestmentSignals) > 0)
	assert.Equal(t, true, len(result.OverlookedTrends) > 0)

	for _, line := range append(append(result.Breakthroughs, result.InvestmentSignals...), result.Watchlist...) {
		assert.Equal(t, false, strings.Contains(line, "fraud"))
	}
}

func TestHeuristicAnalyzer_WatchlistFormat(t *testing.T) {
	a := NewHeuristicAnalyzer()
	items := []model.SignalItem{
		{Title: "Mainnet infrastructure launch", Source: "CoinDesk", Score: 7.5},
	}

	result, err := a.Analyze(context.Background(), "2026-08-27", items)

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(result.Watchlist))
	assert.Equal(t, "Mainnet infrastructure launch | CoinDesk | score=7.5", result.Watchlist[0])
}

func TestBuildAnalysisItems_TruncatesSummaries(t *testing.T) {
	long := strings.Repeat("a", analysisSummaryChars+100)
	items := []model.SignalItem{{Title: "t", Summary: long}}

	payload := buildAnalysisItems(items)

	assert.Equal(t, 1, payload[0].ID)
	assert.Equal(t, analysisSummaryChars, len(payload[0].Summary))
}
