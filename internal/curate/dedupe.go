package curate

import (
	"github.com/zhaidewei/active-info-daily/internal/model"
)

// Dedupe merges near-duplicate items. Items are scanned in input order
// and compared against every already-accepted unique item; the first
// seen item survives and absorbs the longer summary, a missing URL and
// a later publication time from its duplicates. Ordering of survivors
// is never changed.
func Dedupe(items []model.SignalItem, cfg Config) ([]model.SignalItem, model.IngestStats) {
	unique := make([]model.SignalItem, 0, len(items))
	duplicatesRemoved := 0

	for _, item := range items {
		dupIndex := -1
		for idx := range unique {
			if isDuplicate(item, unique[idx], cfg) {
				dupIndex = idx
				break
			}
		}

		if dupIndex == -1 {
			unique = append(unique, item)
			continue
		}

		duplicatesRemoved++
		existing := &unique[dupIndex]
		if len(item.Summary) > len(existing.Summary) {
			existing.Summary = item.Summary
		}
		if existing.URL == "" && item.URL != "" {
			existing.URL = item.URL
		}
		if !item.PublishedAt.IsZero() &&
			(existing.PublishedAt.IsZero() || item.PublishedAt.After(existing.PublishedAt)) {
			existing.PublishedAt = item.PublishedAt
		}
	}

	stats := model.IngestStats{
		RawItems:          len(items),
		UniqueItems:       len(unique),
		DuplicatesRemoved: duplicatesRemoved,
	}
	return unique, stats
}

func isDuplicate(a, b model.SignalItem, cfg Config) bool {
	aURL := CanonicalURL(a.URL)
	bURL := CanonicalURL(b.URL)
	if aURL != "" && bURL != "" && aURL == bURL {
		return true
	}

	aTitle := NormalizeTitle(a.Title)
	bTitle := NormalizeTitle(b.Title)
	if aTitle == "" || bTitle == "" {
		return false
	}
	if aTitle == bTitle {
		return true
	}
	return similarityRatio(aTitle, bTitle) >= cfg.TitleSimilarity
}
