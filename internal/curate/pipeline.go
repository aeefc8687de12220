package curate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// ErrNoItems is the only failure the pipeline propagates: no input at
// all. Every other problem degrades to a deterministic fallback.
var ErrNoItems = errors.New("no signal items to curate")

// Analyzer turns a ranked shortlist into narrative bullet lines. The
// pipeline never lets an analyzer error escape: it substitutes the
// fallback analyzer instead.
type Analyzer interface {
	Analyze(ctx context.Context, dateKey string, items []model.SignalItem) (model.AnalysisResult, error)
}

// Pipeline sequences dedup, scoring, trend resonance, novelty
// adjustment and analysis into a single curate operation.
type Pipeline struct {
	cfg      Config
	analyzer Analyzer
	fallback Analyzer
	scorer   ExternalScorer
	log      *slog.Logger
}

// Result is one curated run: the full ranked list, the citable top
// items, the analyzer shortlist, the (novelty-filtered) narrative and
// run statistics.
type Result struct {
	DateKey   string
	Ranked    []model.SignalItem
	TopItems  []model.SignalItem
	Shortlist []model.SignalItem
	Analysis  model.AnalysisResult
	Stats     model.IngestStats
	TrendRows []string
}

// NewPipeline builds a pipeline. fallback must be a purely local
// analyzer that cannot fail; analyzer and scorer may be nil, in which
// case the fallback and the local scorer are used directly.
func NewPipeline(cfg Config, analyzer, fallback Analyzer, scorer ExternalScorer, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, analyzer: analyzer, fallback: fallback, scorer: scorer, log: log}
}

// Curate runs the full pipeline over one batch of raw items against the
// historical signature set of prior runs.
func (p *Pipeline) Curate(ctx context.Context, dateKey string, raw []model.SignalItem, hist *History) (*Result, error) {
	if len(raw) == 0 {
		return nil, ErrNoItems
	}

	unique, stats := Dedupe(raw, p.cfg)
	p.log.Info("dedup complete",
		"raw_items", stats.RawItems,
		"unique_items", stats.UniqueItems,
		"duplicates_removed", stats.DuplicatesRemoved)

	ranked := ScoreWithStrategy(ctx, unique, p.scorer, p.cfg, p.log)
	ranked, trendRows := ApplyTrendResonance(ranked)
	ranked = CapSourceItems(ranked, p.cfg.SourceCaps)

	ranked = ApplyRepeatPenalty(ranked, hist, p.cfg)
	ranked = CapRepeatsInFront(ranked, hist, p.cfg)

	shortlist := ranked
	if p.cfg.ShortlistSize > 0 && len(shortlist) > p.cfg.ShortlistSize {
		shortlist = shortlist[:p.cfg.ShortlistSize]
	}

	analysis := p.analyze(ctx, dateKey, shortlist)
	analysis = SuppressRepeatedLines(analysis, hist, p.cfg)

	topItems := ranked
	if p.cfg.TopItems > 0 && len(topItems) > p.cfg.TopItems {
		topItems = topItems[:p.cfg.TopItems]
	}

	return &Result{
		DateKey:   dateKey,
		Ranked:    ranked,
		TopItems:  topItems,
		Shortlist: shortlist,
		Analysis:  analysis,
		Stats:     stats,
		TrendRows: trendRows,
	}, nil
}

func (p *Pipeline) analyze(ctx context.Context, dateKey string, items []model.SignalItem) model.AnalysisResult {
	if p.analyzer != nil {
		analysis, err := p.analyzer.Analyze(ctx, dateKey, items)
		if err == nil {
			return analysis
		}
		p.log.Warn("analyzer failed, using heuristic fallback", "error", err)
	}
	if p.fallback == nil {
		return model.AnalysisResult{}
	}
	analysis, err := p.fallback.Analyze(ctx, dateKey, items)
	if err != nil {
		p.log.Error("fallback analyzer failed", "error", err)
		return model.AnalysisResult{}
	}
	return analysis
}
