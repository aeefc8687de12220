package report

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

func sampleAnalysis() model.AnalysisResult {
	return model.AnalysisResult{
		Overview:          "总览",
		Breakthroughs:     []string{"MSFT 签署核电购电协议，算力供电锁定"},
		InvestmentSignals: []string{"Solana onchain 交易量创新高"},
		OverlookedTrends:  []string{"Solana 链上应用迎来新的增长窗口"},
		Watchlist:         []string{"Solana onchain 交易量创新高"},
	}
}

func sampleTopItems() []model.SignalItem {
	return []model.SignalItem{
		{Title: "MSFT signs nuclear PPA", URL: "https://example.com/msft", Source: "Utility Dive", Category: model.CategoryPowerTrading, Score: 8.2},
		{Title: "Solana onchain volume hits record", URL: "https://example.com/sol", Source: "CoinDesk", Category: model.CategoryWeb3, Score: 7.1},
	}
}

func TestBuildMarkdown_Sections(t *testing.T) {
	md := BuildMarkdown("2026-08-27", sampleAnalysis(), sampleTopItems(), nil)

	assert.Equal(t, true, strings.HasPrefix(md, "# 乐观者的主动信息汇总 - 2026-08-27"))
	assert.Equal(t, true, strings.Contains(md, "## 1. 事实与新闻"))
	assert.Equal(t, true, strings.Contains(md, "## 2. 可能的趋势与机会"))
	assert.Equal(t, true, strings.Contains(md, "## 重点原始链接"))
	assert.Equal(t, true, strings.HasSuffix(md, "\n"))
}

func TestBuildMarkdown_NumbersSources(t *testing.T) {
	md := BuildMarkdown("2026-08-27", sampleAnalysis(), sampleTopItems(), nil)

	assert.Equal(t, true, strings.Contains(md, "1. [MSFT signs nuclear PPA](https://example.com/msft)（Utility Dive, score=8.2）"))
	assert.Equal(t, true, strings.Contains(md, "2. [Solana onchain volume hits record](https://example.com/sol)（CoinDesk, score=7.1）"))
}

func TestBuildMarkdown_FactualLinesCarryCitations(t *testing.T) {
	md := BuildMarkdown("2026-08-27", sampleAnalysis(), sampleTopItems(), nil)

	assert.Equal(t, true, strings.Contains(md, "MSFT 签署核电购电协议，算力供电锁定（来源: [#1](https://example.com/msft)）"))
}

func TestBuildMarkdown_NoSources(t *testing.T) {
	md := BuildMarkdown("2026-08-27", sampleAnalysis(), nil, nil)

	assert.Equal(t, true, strings.Contains(md, "1. 暂无可引用链接"))
}

func TestBuildMarkdown_OpportunityOutlineGroupsByTheme(t *testing.T) {
	md := BuildMarkdown("2026-08-27", sampleAnalysis(), sampleTopItems(), nil)

	assert.Equal(t, true, strings.Contains(md, "### Web3 与链上金融"))
	assert.Equal(t, true, strings.Contains(md, "_-> "))
}

func TestBuildMarkdown_OpportunitySkipsFactualRepeats(t *testing.T) {
	analysis := model.AnalysisResult{
		Breakthroughs:     []string{"同一件事的叙述，完全相同的文本内容"},
		InvestmentSignals: []string{"同一件事的叙述，完全相同的文本内容"},
		OverlookedTrends:  []string{"另一个独立的趋势观察，英国推进代币化试点"},
	}

	md := BuildMarkdown("2026-08-27", analysis, sampleTopItems(), nil)

	// the factual line appears once up top and is excluded from the outline
	idx := strings.Index(md, "同一件事的叙述")
	assert.NotEqual(t, -1, idx)
	rest := md[idx+len("同一件事的叙述"):]
	assert.Equal(t, false, strings.Contains(rest, "同一件事的叙述"))
	assert.Equal(t, true, strings.Contains(md, "另一个独立的趋势观察"))
}

func TestMergeLines_DeduplicatesAcrossGroups(t *testing.T) {
	merged := mergeLines(
		[]string{"- line one", "line two"},
		[]string{"Line one", ""},
	)

	assert.Equal(t, []string{"line one", "line two"}, merged)
}

func TestExcludeSimilar(t *testing.T) {
	out := excludeSimilar(
		[]string{
			"监管新规落地带来合规红利（来源: [#1](https://example.com/a)）",
			"电网互联审批提速，储能并网加快",
		},
		[]string{"监管新规落地带来合规红利"},
	)

	assert.Equal(t, 1, len(out))
	assert.Equal(t, true, strings.HasPrefix(out[0], "电网互联审批提速"))
}
