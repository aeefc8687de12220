package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

var breakthroughTriggers = []string{
	"model", "agent", "chip", "breakthrough", "ai", "llm", "web3",
	"blockchain", "ethereum", "solana", "bitcoin", "layer 2",
	"power market", "electricity market", "grid", "battery storage",
	"demand response", "transmission",
}

var investmentTriggers = []string{
	"revenue", "profit", "partnership", "adoption", "guidance",
	"contract", "10-q", "10-k", "8-k", "filed", "etf", "mainnet", "tvl",
	"onchain", "institutional", "ppa", "capacity market",
	"ancillary services", "lmp", "interconnection",
}

var trendTriggers = []string{
	"policy", "infrastructure", "regulation", "supply chain", "standard",
	"wallet", "defi", "stablecoin", "tokenization", "onchain", "rollup",
	"transmission queue", "congestion", "curtailment", "grid bottleneck",
	"ercot", "pjm", "caiso",
}

// HeuristicAnalyzer generates the narrative from the same keyword sets
// the scorer uses. It is the mandatory local fallback: it never fails,
// so the pipeline always completes even with no LLM configured.
type HeuristicAnalyzer struct{}

func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

func (a *HeuristicAnalyzer) Analyze(_ context.Context, dateKey string, items []model.SignalItem) (model.AnalysisResult, error) {
	var breakthroughs, investments, trends []string

	for _, item := range items {
		text := strings.ToLower(item.Title + " " + item.Summary)
		if isNegativeSignal(text) {
			continue
		}
		bullet := fmt.Sprintf("%s（%s）", item.Title, item.Source)
		if len(breakthroughs) < 6 && isPositiveOrInnovative(text, false) && containsAny(text, breakthroughTriggers) {
			breakthroughs = append(breakthroughs, bullet)
		}
		if len(investments) < 8 && isPositiveOrInnovative(text, false) && containsAny(text, investmentTriggers) {
			investments = append(investments, bullet)
		}
		if len(trends) < 8 && isPositiveOrInnovative(text, true) && containsAny(text, trendTriggers) {
			trends = append(trends, bullet)
		}
		if len(breakthroughs) >= 6 && len(investments) >= 6 && len(trends) >= 6 {
			break
		}
	}

	if len(breakthroughs) == 0 {
		breakthroughs = fallbackBullets(items, 3, "积极进展：")
	}
	if len(investments) == 0 {
		investments = fallbackBullets(items, 4, "增量机会：")
	}
	if len(trends) == 0 {
		trends = fallbackBullets(items, 4, "创新趋势：")
	}

	var watchlist []string
	for _, item := range items {
		blob := strings.ToLower(item.Title + " " + item.Summary)
		if isNegativeSignal(blob) || !isPositiveOrInnovative(blob, true) {
			continue
		}
		watchlist = append(watchlist, fmt.Sprintf("%s | %s | score=%.1f", cutLine(item.Title, 120), item.Source, item.Score))
		if len(watchlist) >= 10 {
			break
		}
	}

	overview := fmt.Sprintf("%s 共扫描 %d 条信号，建议优先关注高分条目并做二次验证。", dateKey, len(items))
	return model.AnalysisResult{
		Overview:          overview,
		Breakthroughs:     breakthroughs,
		InvestmentSignals: investments,
		OverlookedTrends:  trends,
		Watchlist:         watchlist,
	}, nil
}

func cutLine(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
