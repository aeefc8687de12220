package model

import "time"

const (
	CategoryAI               = "ai"
	CategoryIT               = "it"
	CategoryWeb3             = "web3"
	CategoryPowerTrading     = "power_trading"
	CategoryEarnings         = "earnings"
	CategoryPredictionMarket = "prediction_market"
	CategoryGeneral          = "general"
)

// SignalItem is one piece of source content flowing through the pipeline.
// Score is meaningful only after scoring has run.
type SignalItem struct {
	Title       string
	URL         string
	Source      string
	Category    string
	PublishedAt time.Time
	Summary     string
	Score       float64
}

// SignalCategories are the categories that earn the flat scoring bonus.
var SignalCategories = map[string]bool{
	CategoryAI:               true,
	CategoryIT:               true,
	CategoryWeb3:             true,
	CategoryPowerTrading:     true,
	CategoryEarnings:         true,
	CategoryPredictionMarket: true,
}

type IngestStats struct {
	RawItems          int `json:"raw_items"`
	UniqueItems       int `json:"unique_items"`
	DuplicatesRemoved int `json:"duplicates_removed"`
}
