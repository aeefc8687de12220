package curate

import (
	"sort"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// History is the read-only signature snapshot of the last K reports:
// canonical URLs, normalized title signatures and normalized
// narrative-line signatures. It is rebuilt fresh per run and never
// written to by the pipeline.
type History struct {
	URLs   map[string]bool
	Titles map[string]bool
	Lines  []string

	lineSet map[string]bool
}

func NewHistory() *History {
	return &History{
		URLs:    make(map[string]bool),
		Titles:  make(map[string]bool),
		lineSet: make(map[string]bool),
	}
}

func (h *History) AddURL(rawURL string) {
	if canonical := CanonicalURL(rawURL); canonical != "" {
		h.URLs[canonical] = true
	}
}

func (h *History) AddTitle(title string) {
	if sig := Signature(title); sig != "" {
		h.Titles[sig] = true
	}
}

func (h *History) AddLine(line string) {
	sig := Signature(line)
	if sig == "" || h.lineSet[sig] {
		return
	}
	h.lineSet[sig] = true
	h.Lines = append(h.Lines, sig)
}

// Empty reports whether there is no historical signal at all, in which
// case every novelty step degrades to identity behavior.
func (h *History) Empty() bool {
	return h == nil || (len(h.URLs) == 0 && len(h.Titles) == 0 && len(h.Lines) == 0)
}

// ApplyRepeatPenalty subtracts the configured penalty from items whose
// canonical URL appeared in recent reports, and a reduced fraction when
// only the title signature repeats, then re-sorts descending by score.
func ApplyRepeatPenalty(items []model.SignalItem, hist *History, cfg Config) []model.SignalItem {
	if hist.Empty() {
		return items
	}
	penalized := make([]model.SignalItem, len(items))
	copy(penalized, items)
	for i := range penalized {
		if hist.URLs[CanonicalURL(penalized[i].URL)] {
			penalized[i].Score -= cfg.RepeatPenalty
		} else if hist.Titles[Signature(penalized[i].Title)] {
			penalized[i].Score -= cfg.RepeatPenalty * cfg.TitlePenaltyFactor
		}
	}
	sort.SliceStable(penalized, func(i, j int) bool {
		return penalized[i].Score > penalized[j].Score
	})
	return penalized
}

// CapRepeatsInFront fills a front window of cfg.FrontSize items,
// deferring historical-URL repeats beyond cfg.MaxReusedInFront to an
// overflow list. When too few fresh items exist the window is backfilled
// from the overflow in order, which can intentionally exceed the cap:
// stale content beats an empty report.
func CapRepeatsInFront(items []model.SignalItem, hist *History, cfg Config) []model.SignalItem {
	if hist.Empty() || cfg.FrontSize <= 0 {
		return items
	}

	front := make([]model.SignalItem, 0, cfg.FrontSize)
	overflow := make([]model.SignalItem, 0)
	reused := 0

	for _, item := range items {
		if len(front) < cfg.FrontSize {
			isRepeat := hist.URLs[CanonicalURL(item.URL)]
			if isRepeat && reused >= cfg.MaxReusedInFront {
				overflow = append(overflow, item)
				continue
			}
			if isRepeat {
				reused++
			}
			front = append(front, item)
			continue
		}
		overflow = append(overflow, item)
	}

	for len(front) < cfg.FrontSize && len(overflow) > 0 {
		front = append(front, overflow[0])
		overflow = overflow[1:]
	}

	return append(front, overflow...)
}

// SuppressRepeatedLines drops narrative lines whose signature fuzzily
// matches a historical one. A category that would end up empty keeps its
// first cfg.MinLinesPerSection original lines instead.
func SuppressRepeatedLines(analysis model.AnalysisResult, hist *History, cfg Config) model.AnalysisResult {
	if hist.Empty() {
		return analysis
	}
	out := analysis
	out.Breakthroughs = suppressLines(analysis.Breakthroughs, hist, cfg)
	out.InvestmentSignals = suppressLines(analysis.InvestmentSignals, hist, cfg)
	out.OverlookedTrends = suppressLines(analysis.OverlookedTrends, hist, cfg)
	out.Watchlist = suppressLines(analysis.Watchlist, hist, cfg)
	return out
}

func suppressLines(lines []string, hist *History, cfg Config) []string {
	if len(lines) == 0 {
		return lines
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if !lineSeenBefore(line, hist, cfg) {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		floor := cfg.MinLinesPerSection
		if floor > len(lines) {
			floor = len(lines)
		}
		return lines[:floor]
	}
	return kept
}

func lineSeenBefore(line string, hist *History, cfg Config) bool {
	sig := Signature(line)
	if sig == "" {
		return false
	}
	for _, past := range hist.Lines {
		if SignaturesMatch(sig, past, cfg.MinContainLen, cfg.LineSimilarity) {
			return true
		}
	}
	return false
}
