package report

import (
	"fmt"
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/curate"
	"github.com/zhaidewei/active-info-daily/internal/model"
)

const (
	outlineContainLen = 10
	outlineSimilarity = 0.63
)

func formatBullets(lines []string) string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if stripped := curate.StripBulletPrefix(line); stripped != "" {
			cleaned = append(cleaned, "- "+stripped)
		}
	}
	if len(cleaned) == 0 {
		return "- 暂无"
	}
	return strings.Join(cleaned, "\n")
}

// mergeLines concatenates bullet groups in order, dropping blanks and
// case-insensitive duplicates.
func mergeLines(groups ...[]string) []string {
	var merged []string
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, raw := range group {
			cleaned := curate.StripBulletPrefix(raw)
			key := strings.ToLower(cleaned)
			if cleaned == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, cleaned)
		}
	}
	return merged
}

// excludeSimilar drops lines that fuzzily repeat an anchor line or an
// earlier kept line, so the opportunity section does not restate facts.
func excludeSimilar(lines, anchors []string) []string {
	anchorSigs := make([]string, 0, len(anchors))
	for _, anchor := range anchors {
		if sig := curate.Signature(anchor); sig != "" {
			anchorSigs = append(anchorSigs, sig)
		}
	}

	var out []string
	var outSigs []string
	for _, raw := range lines {
		cleaned := curate.StripBulletPrefix(raw)
		sig := curate.Signature(cleaned)
		if sig == "" {
			continue
		}
		matched := false
		for _, anchor := range anchorSigs {
			if curate.SignaturesMatch(sig, anchor, outlineContainLen, outlineSimilarity) {
				matched = true
				break
			}
		}
		if !matched {
			for _, prev := range outSigs {
				if curate.SignaturesMatch(sig, prev, outlineContainLen, outlineSimilarity) {
					matched = true
					break
				}
			}
		}
		if matched {
			continue
		}
		out = append(out, cleaned)
		outSigs = append(outSigs, sig)
	}
	return out
}

func opportunityInsight(line string) string {
	lowered := strings.ToLower(line)
	contains := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(lowered, k) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("sec", "监管", "政策", "牌照"):
		return "监管边际放松或规则清晰化，常带来估值体系重定价。"
	case contains("财报", "8-k", "10-k", "10-q", "业绩"):
		return "财报与指引改善会形成预期差，推动市场对中期增长重新定价。"
	case contains("电力", "电网", "ppa", "ercot", "储能"):
		return "AI负荷增长与电力市场机制变化正在重塑能源资产和公用事业估值。"
	case contains("ai", "模型", "算力", "芯片"):
		return "技术迭代与成本下降会加快应用落地，扩大产业链收益面。"
	case contains("web3", "加密", "比特币", "solana", "defi", "链上"):
		return "链上合规化与机构化推进，可能带来新一轮资产与流量迁移。"
	default:
		return "需求增量或新商业模式，具备中期机会价值。"
	}
}

func opportunityTheme(line string) string {
	lowered := strings.ToLower(line)
	contains := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(lowered, k) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("web3", "加密", "比特币", "solana", "ethereum", "链上", "token", "defi"):
		return "Web3 与链上金融"
	case contains("电力", "电网", "ppa", "ercot", "pjm", "caiso", "储能", "并网"):
		return "电力交易与能源基础设施"
	case contains("ai", "模型", "芯片", "算力", "agent", "cloud", "infra"):
		return "AI / IT 与新基础设施"
	case contains("监管", "政策", "sec", "牌照", "合规"):
		return "制度与监管红利"
	default:
		return "跨行业组合机会"
	}
}

// buildOpportunityOutline groups opportunity lines by theme, attaching
// citations and one insight line under each entry.
func buildOpportunityOutline(lines []string, entries []curate.SourceEntry) string {
	grouped := make(map[string][][2]string)
	var order []string
	for _, raw := range lines {
		signal := curate.StripBulletPrefix(raw)
		if signal == "" {
			continue
		}
		refs := curate.FindSourceRefs(signal, entries, 2)
		line := signal + curate.FormatSourceRefs(refs)
		theme := opportunityTheme(signal)
		if _, ok := grouped[theme]; !ok {
			order = append(order, theme)
		}
		grouped[theme] = append(grouped[theme], [2]string{line, opportunityInsight(signal)})
	}

	if len(order) == 0 {
		return "- 暂无"
	}

	var blocks []string
	for _, theme := range order {
		blocks = append(blocks, "### "+theme)
		for _, pair := range grouped[theme] {
			blocks = append(blocks, "- "+pair[0])
			blocks = append(blocks, fmt.Sprintf("  - _-> %s_", pair[1]))
		}
	}
	return strings.Join(blocks, "\n")
}

// BuildMarkdown renders the daily digest: cited facts, a themed
// opportunity outline and the numbered source list. allItemsForRefs is
// the wider ranked pool used for supplementary citations.
func BuildMarkdown(reportDate string, analysis model.AnalysisResult, topItems, allItemsForRefs []model.SignalItem) string {
	entries := curate.BuildSourceEntries(topItems)

	sourceLines := make([]string, 0, len(entries))
	for _, entry := range entries {
		sourceLines = append(sourceLines, fmt.Sprintf("%d. [%s](%s)（%s, score=%.1f）",
			entry.Index, entry.Item.Title, entry.Item.URL, entry.Item.Source, entry.Item.Score))
	}
	sources := strings.Join(sourceLines, "\n")
	if sources == "" {
		sources = "1. 暂无可引用链接"
	}

	factualBase := mergeLines(analysis.Breakthroughs, analysis.InvestmentSignals)
	factualItems := curate.AppendSourceRefs(factualBase, entries, 2, allItemsForRefs, true)

	opportunityCandidates := mergeLines(analysis.InvestmentSignals, analysis.OverlookedTrends, analysis.Watchlist)
	opportunityItems := excludeSimilar(opportunityCandidates, factualBase)
	outline := buildOpportunityOutline(opportunityItems, entries)

	markdown := fmt.Sprintf(`# 乐观者的主动信息汇总 - %s

## 1. 事实与新闻
%s

## 2. 可能的趋势与机会
%s

## 重点原始链接
%s
`, reportDate, formatBullets(factualItems), outline, sources)
	return strings.TrimSpace(markdown) + "\n"
}
