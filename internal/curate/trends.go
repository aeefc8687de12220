package curate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

const maxResonanceBonus = 2.8

var themeKeywords = map[string][]string{
	"ai_agent":            {"agent", "agentic", "copilot", "autonomous"},
	"model_breakthrough":  {"model", "reasoning", "sota", "breakthrough", "inference"},
	"compute_chip":        {"chip", "gpu", "semiconductor", "blackwell", "cuda"},
	"enterprise_adoption": {"enterprise", "adoption", "contract", "partnership", "deployment"},
	"earnings_quality":    {"revenue", "profit", "margin", "guidance", "buyback"},
	"policy_regulation":   {"policy", "regulation", "compliance", "sec", "standard"},
	"infra_buildout":      {"datacenter", "infrastructure", "cloud", "power", "network"},
	"web3_infra":          {"web3", "blockchain", "layer 2", "rollup", "mainnet", "onchain"},
	"digital_assets":      {"bitcoin", "ethereum", "solana", "token", "stablecoin", "defi", "wallet", "etf"},
	"power_market":        {"power market", "electricity market", "lmp", "capacity market", "ancillary services", "ppa"},
	"grid_constraints":    {"grid", "transmission", "congestion", "curtailment", "interconnection", "demand response"},
}

var themeCN = map[string]string{
	"ai_agent":            "AI智能体",
	"model_breakthrough":  "模型突破",
	"compute_chip":        "算力芯片",
	"enterprise_adoption": "企业落地",
	"earnings_quality":    "盈利质量",
	"policy_regulation":   "政策监管",
	"infra_buildout":      "基础设施",
	"web3_infra":          "Web3基础设施",
	"digital_assets":      "数字资产生态",
	"power_market":        "电力市场交易",
	"grid_constraints":    "电网约束信号",
}

func extractThemes(item model.SignalItem) []string {
	blob := strings.ToLower(item.Title + " " + item.Summary + " " + item.Category)
	var tags []string
	for theme, keywords := range themeKeywords {
		for _, key := range keywords {
			if strings.Contains(blob, key) {
				tags = append(tags, theme)
				break
			}
		}
	}
	return tags
}

// ApplyTrendResonance boosts items whose themes recur across the batch,
// weighting both frequency and source diversity, then re-sorts by score.
// It also returns display rows for themes seen at least twice.
func ApplyTrendResonance(items []model.SignalItem) ([]model.SignalItem, []string) {
	boosted := make([]model.SignalItem, len(items))
	copy(boosted, items)

	themeCount := make(map[string]int)
	themeSources := make(map[string]map[string]bool)
	itemThemes := make([][]string, len(boosted))

	for i, item := range boosted {
		tags := extractThemes(item)
		itemThemes[i] = tags
		for _, tag := range tags {
			themeCount[tag]++
			if themeSources[tag] == nil {
				themeSources[tag] = make(map[string]bool)
			}
			themeSources[tag][item.Source] = true
		}
	}

	for i, tags := range itemThemes {
		if len(tags) == 0 {
			continue
		}
		best := 0.0
		for _, tag := range tags {
			resonance := float64(themeCount[tag])*0.22 + float64(len(themeSources[tag]))*0.35
			if resonance > best {
				best = resonance
			}
		}
		if best > maxResonanceBonus {
			best = maxResonanceBonus
		}
		boosted[i].Score += best
	}

	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].Score > boosted[j].Score
	})

	themes := make([]string, 0, len(themeCount))
	for theme := range themeCount {
		themes = append(themes, theme)
	}
	sort.Slice(themes, func(i, j int) bool {
		if themeCount[themes[i]] != themeCount[themes[j]] {
			return themeCount[themes[i]] > themeCount[themes[j]]
		}
		if len(themeSources[themes[i]]) != len(themeSources[themes[j]]) {
			return len(themeSources[themes[i]]) > len(themeSources[themes[j]])
		}
		return themes[i] < themes[j]
	})

	var rows []string
	for _, theme := range themes {
		if len(rows) >= 8 {
			break
		}
		if themeCount[theme] < 2 {
			continue
		}
		label := themeCN[theme]
		if label == "" {
			label = theme
		}
		rows = append(rows, fmt.Sprintf("%s：出现 %d 次，跨 %d 个来源", label, themeCount[theme], len(themeSources[theme])))
	}

	return boosted, rows
}
