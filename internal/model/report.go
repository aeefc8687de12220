package model

import "time"

// AnalysisResult is the narrative produced by the analyzer: an overview
// plus four bullet lists. The curation core treats each line as opaque
// text; it may only append a citation suffix.
type AnalysisResult struct {
	Overview          string   `json:"overview"`
	Breakthroughs     []string `json:"breakthroughs"`
	InvestmentSignals []string `json:"investment_signals"`
	OverlookedTrends  []string `json:"overlooked_trends"`
	Watchlist         []string `json:"watchlist"`
}

type Report struct {
	ReportDate  string
	CreatedAt   time.Time
	TotalItems  int
	Markdown    string
	JSONContent string
}

type ReportSummary struct {
	ReportDate string
	CreatedAt  time.Time
	TotalItems int
}
