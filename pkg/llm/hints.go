package llm

import "strings"

var negativeHints = []string{
	"fraud", "lawsuit", "probe", "investigation", "layoff", "bankruptcy",
	"recall", "downgrade", "hack", "exploit", "sanction", "penalty",
	"decline", "drop", "bearish",
	"暴跌", "下滑", "裁员", "诉讼", "调查", "处罚", "亏损",
}

var positiveHints = []string{
	"breakthrough", "launch", "adoption", "partnership", "growth",
	"upgrade", "approval", "guidance raised", "record", "expansion",
	"unlock", "increase", "first", "new",
	"突破", "创新", "增长", "上调", "落地", "扩张", "合作", "提速",
	"首次", "新增", "升级",
}

var innovationHints = []string{
	"agent", "tokenization", "mainnet", "infrastructure", "standard",
	"rollup", "defi", "onchain", "cross-border", "ai-native",
	"power market", "battery storage", "demand response", "transmission",
	"recombination", "business model", "protocol",
	"创新", "重组", "新模式", "新范式", "基础设施", "代币化", "链上",
	"电力交易", "并网", "储能",
}

func containsAny(text string, hints []string) bool {
	lowered := strings.ToLower(text)
	for _, hint := range hints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}

func isNegativeSignal(text string) bool {
	return containsAny(text, negativeHints)
}

func isPositiveOrInnovative(text string, requireInnovation bool) bool {
	if requireInnovation {
		return containsAny(text, innovationHints)
	}
	return containsAny(text, positiveHints) || containsAny(text, innovationHints)
}
