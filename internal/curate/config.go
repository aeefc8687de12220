package curate

// KeywordGroup pairs a keyword set with its per-hit weight.
type KeywordGroup struct {
	Weight float64
	Terms  []string
}

// KeywordConfig holds the keyword sets driving the deterministic scorer.
// The sets are injected so tests can substitute smaller ones.
type KeywordConfig struct {
	AI            KeywordGroup
	Web3          KeywordGroup
	PowerTrading  KeywordGroup
	Investment    KeywordGroup
	Overlooked    KeywordGroup
	Negative      KeywordGroup
	CategoryBonus float64
}

// Config carries the tunable knobs of the curation pipeline. The
// similarity thresholds are empirically tuned; tests assert grouping and
// ordering behavior rather than exact ratio values.
type Config struct {
	// TitleSimilarity is the dedup threshold on the normalized-title ratio.
	TitleSimilarity float64
	// LineSimilarity is the novelty-suppression threshold for narrative lines.
	LineSimilarity float64
	// MinContainLen is the minimum normalized length for substring
	// containment to count as a signature match.
	MinContainLen int

	RepeatPenalty      float64
	TitlePenaltyFactor float64
	FrontSize          int
	MaxReusedInFront   int
	// MinLinesPerSection is the floor kept when suppression would empty a
	// narrative category.
	MinLinesPerSection int

	// MaxExternalItems caps how many items are sent to an external scorer.
	MaxExternalItems int
	// ExternalWeight is the blend weight given to the external verdict.
	ExternalWeight float64

	ShortlistSize int
	TopItems      int
	// SourceCaps limits how many items a single source may place in the
	// ranked list, e.g. "SEC Filing" -> 5.
	SourceCaps map[string]int

	Keywords KeywordConfig
}

func DefaultConfig() Config {
	return Config{
		TitleSimilarity:    0.93,
		LineSimilarity:     0.82,
		MinContainLen:      12,
		RepeatPenalty:      1.2,
		TitlePenaltyFactor: 0.7,
		FrontSize:          10,
		MaxReusedInFront:   3,
		MinLinesPerSection: 2,
		MaxExternalItems:   25,
		ExternalWeight:     0.45,
		ShortlistSize:      25,
		TopItems:           15,
		SourceCaps:         map[string]int{"SEC Filing": 5},
		Keywords:           DefaultKeywords(),
	}
}

func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		AI: KeywordGroup{Weight: 1.5, Terms: []string{
			"breakthrough", "state-of-the-art", "sota", "foundation model",
			"agent", "reasoning", "inference", "chip", "semiconductor",
			"open source model",
		}},
		Web3: KeywordGroup{Weight: 1.35, Terms: []string{
			"web3", "blockchain", "crypto", "bitcoin", "ethereum", "solana",
			"layer 2", "rollup", "defi", "tokenization", "stablecoin",
			"staking", "onchain", "wallet",
		}},
		PowerTrading: KeywordGroup{Weight: 1.3, Terms: []string{
			"power trading", "electricity market", "power market", "grid",
			"transmission", "congestion", "lmp", "locational marginal price",
			"capacity market", "ancillary services", "demand response",
			"curtailment", "interconnection", "ppa", "battery storage",
			"ercot", "pjm", "caiso",
		}},
		Investment: KeywordGroup{Weight: 1.4, Terms: []string{
			"profit", "guidance raise", "beat estimates", "record revenue",
			"approval", "contract win", "partnership", "backlog", "buyback",
			"expansion", "adoption", "10-q", "10-k", "8-k", "filed", "etf",
			"mainnet", "tvl", "institutional adoption", "onchain volume",
			"ppa", "capacity auction", "ancillary services",
			"interconnection approval",
		}},
		Overlooked: KeywordGroup{Weight: 1.2, Terms: []string{
			"policy", "infrastructure", "regulation", "supply chain",
			"talent", "hiring", "pilot", "standard", "benchmark",
			"grid bottleneck", "transmission queue", "curtailment",
			"congestion",
		}},
		Negative: KeywordGroup{Weight: 1.8, Terms: []string{
			"fraud", "lawsuit", "probe", "investigation", "layoff",
			"cuts jobs", "miss estimates", "downgrade", "bankruptcy",
			"recall",
		}},
		CategoryBonus: 1.0,
	}
}
