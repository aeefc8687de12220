package curate

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// ScoreCandidate is the bounded projection of an item handed to an
// external scorer. ID is the item's index in the batch being scored.
type ScoreCandidate struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Source     string  `json:"source"`
	Category   string  `json:"category"`
	URL        string  `json:"url"`
	LocalScore float64 `json:"score"`
}

// ScoreVerdict is an external scorer's per-item answer. Score is on a
// 0-10 scale; Keep=false discards the item outright.
type ScoreVerdict struct {
	ID    int
	Score float64
	Keep  bool
}

// ExternalScorer is the pluggable scoring strategy. Any error, or any
// verdict referencing an unknown id, causes the whole batch to fall back
// to the local deterministic scores.
type ExternalScorer interface {
	ScoreItems(ctx context.Context, candidates []ScoreCandidate) ([]ScoreVerdict, error)
}

const externalSummaryChars = 420

func countKeywords(blob string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if strings.Contains(blob, term) {
			hits++
		}
	}
	return hits
}

func localScore(item model.SignalItem, kw KeywordConfig) float64 {
	blob := strings.ToLower(item.Title + " " + item.Summary + " " + item.Category)
	score := float64(countKeywords(blob, kw.AI.Terms)) * kw.AI.Weight
	score += float64(countKeywords(blob, kw.Web3.Terms)) * kw.Web3.Weight
	score += float64(countKeywords(blob, kw.PowerTrading.Terms)) * kw.PowerTrading.Weight
	score += float64(countKeywords(blob, kw.Investment.Terms)) * kw.Investment.Weight
	score += float64(countKeywords(blob, kw.Overlooked.Terms)) * kw.Overlooked.Weight
	score -= float64(countKeywords(blob, kw.Negative.Terms)) * kw.Negative.Weight
	if model.SignalCategories[item.Category] {
		score += kw.CategoryBonus
	}
	return score
}

// ScoreItems assigns the deterministic keyword score to every item and
// returns them sorted descending by score, ties keeping input order.
func ScoreItems(items []model.SignalItem, kw KeywordConfig) []model.SignalItem {
	scored := make([]model.SignalItem, len(items))
	copy(scored, items)
	for i := range scored {
		scored[i].Score = localScore(scored[i], kw)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// ScoreWithStrategy runs the local scorer and, when a strategy is
// provided, blends external verdicts into the scores of a capped subset
// of items (largest local score first). Items outside the cap, or absent
// from the response, keep their local score. On any failure the local
// result is returned unchanged.
func ScoreWithStrategy(ctx context.Context, items []model.SignalItem, strategy ExternalScorer, cfg Config, log *slog.Logger) []model.SignalItem {
	ranked := ScoreItems(items, cfg.Keywords)
	if strategy == nil || len(ranked) == 0 {
		return ranked
	}

	subset := ranked
	if cfg.MaxExternalItems > 0 && len(subset) > cfg.MaxExternalItems {
		subset = subset[:cfg.MaxExternalItems]
	}

	candidates := make([]ScoreCandidate, len(subset))
	for i, item := range subset {
		summary := item.Summary
		if len(summary) > externalSummaryChars {
			summary = summary[:externalSummaryChars]
		}
		candidates[i] = ScoreCandidate{
			ID:         i + 1,
			Title:      item.Title,
			Summary:    summary,
			Source:     item.Source,
			Category:   item.Category,
			URL:        item.URL,
			LocalScore: item.Score,
		}
	}

	verdicts, err := strategy.ScoreItems(ctx, candidates)
	if err != nil {
		log.Warn("external scorer failed, keeping local scores", "error", err)
		return ranked
	}

	blended := make([]model.SignalItem, len(ranked))
	copy(blended, ranked)
	for _, v := range verdicts {
		if v.ID < 1 || v.ID > len(subset) {
			log.Warn("external scorer returned unknown id, keeping local scores", "id", v.ID)
			return ranked
		}
		idx := v.ID - 1
		if !v.Keep {
			blended[idx].Score = 0
			continue
		}
		score := v.Score
		if score < 0 {
			score = 0
		} else if score > 10 {
			score = 10
		}
		blended[idx].Score = (1-cfg.ExternalWeight)*blended[idx].Score + cfg.ExternalWeight*score
	}

	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].Score > blended[j].Score
	})
	return blended
}

// CapSourceItems drops items from a source once that source has used up
// its cap, preserving the order of everything kept.
func CapSourceItems(items []model.SignalItem, caps map[string]int) []model.SignalItem {
	if len(caps) == 0 {
		return items
	}
	kept := make([]model.SignalItem, 0, len(items))
	counts := make(map[string]int, len(caps))
	for _, item := range items {
		if cap, ok := caps[item.Source]; ok && cap >= 0 {
			if counts[item.Source] >= cap {
				continue
			}
			counts[item.Source]++
		}
		kept = append(kept, item)
	}
	return kept
}
