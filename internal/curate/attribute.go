package curate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// textAliasMap expands localized domain terms into English synonyms so
// Chinese narrative lines can match English source text.
var textAliasMap = map[string][]string{
	"代币化":   {"tokenization", "tokenized"},
	"英国":    {"united kingdom", "uk", "britain"},
	"加密":    {"crypto", "cryptocurrency", "digital asset"},
	"链上":    {"onchain", "on-chain"},
	"电力交易":  {"power market", "electricity market", "power trading"},
	"预测市场":  {"prediction market", "polymarket", "kalshi"},
	"内容创作者": {"creator", "substack"},
	"监管":    {"regulation", "sec", "policy", "compliance"},
}

var attributionStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "will": true,
	"into": true, "about": true, "2025": true, "2026": true,
}

var (
	tokenPattern  = regexp.MustCompile(`[a-z0-9]{2,}`)
	tickerPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
)

// SourceEntry is one citable candidate: a ranked item with a URL and a
// precomputed lowercase match blob. Index is the 1-based rank shown in
// the report's source list.
type SourceEntry struct {
	Index int
	Item  model.SignalItem
	blob  string
}

// SourceRef points a narrative line at one numbered source.
type SourceRef struct {
	Index int
	URL   string
}

func matchBlob(item model.SignalItem) string {
	return strings.ToLower(item.Title + " " + item.Summary + " " + item.Source + " " + item.Category)
}

// BuildSourceEntries numbers the citable items in rank order, skipping
// items without a URL.
func BuildSourceEntries(items []model.SignalItem) []SourceEntry {
	entries := make([]SourceEntry, 0, len(items))
	idx := 1
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		entries = append(entries, SourceEntry{Index: idx, Item: item, blob: matchBlob(item)})
		idx++
	}
	return entries
}

func lineTokens(line string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(line), -1) {
		if !attributionStopwords[tok] {
			tokens[tok] = true
		}
	}
	for zhKey, aliases := range textAliasMap {
		if strings.Contains(line, zhKey) {
			for _, alias := range aliases {
				for _, tok := range tokenPattern.FindAllString(strings.ToLower(alias), -1) {
					tokens[tok] = true
				}
			}
		}
	}
	return tokens
}

// categoryHint classifies a narrative line into a coarse category used
// to bias attribution toward same-category sources.
func categoryHint(line string) string {
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
	case contains("财报", "8-k", "10-k", "10-q", "业绩", "guidance", "earnings"):
		return model.CategoryEarnings
	case contains("电力", "电网", "ppa", "ercot", "pjm", "caiso", "容量", "储能"):
		return model.CategoryPowerTrading
	case contains("web3", "加密", "比特币", "以太坊", "solana", "链上", "token", "defi"):
		return model.CategoryWeb3
	case contains("ai", "模型", "算力", "芯片", "agent"):
		return model.CategoryAI
	default:
		return ""
	}
}

// FindSourceRefs scores each candidate against the line's tokens
// (+1 generic token, +2 ticker-like token, +1.5 category-hint match) and
// returns up to limit refs with positive scores, ordered by score
// descending then rank ascending.
func FindSourceRefs(line string, entries []SourceEntry, limit int) []SourceRef {
	cleaned := StripBulletPrefix(line)
	if cleaned == "" || len(entries) == 0 {
		return nil
	}

	tokens := lineTokens(cleaned)
	tickers := tickerPattern.FindAllString(cleaned, -1)
	hint := categoryHint(cleaned)

	type scoredRef struct {
		score float64
		index int
		url   string
	}
	var scored []scoredRef
	for _, entry := range entries {
		score := 0.0
		for token := range tokens {
			if strings.Contains(entry.blob, token) {
				score += 1.0
			}
		}
		for _, ticker := range tickers {
			if strings.Contains(entry.blob, strings.ToLower(ticker)) {
				score += 2.0
			}
		}
		if hint != "" && (entry.Item.Category == hint ||
			(hint == model.CategoryAI && entry.Item.Category == model.CategoryIT)) {
			score += 1.5
		}
		if score > 0 {
			scored = append(scored, scoredRef{score: score, index: entry.Index, url: entry.Item.URL})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	refs := make([]SourceRef, 0, len(scored))
	for _, s := range scored {
		refs = append(refs, SourceRef{Index: s.index, URL: s.url})
	}
	return refs
}

// FormatSourceRefs renders refs as a markdown citation suffix.
func FormatSourceRefs(refs []SourceRef) string {
	if len(refs) == 0 {
		return ""
	}
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("[#%d](%s)", ref.Index, ref.URL)
	}
	return fmt.Sprintf("（来源: %s）", strings.Join(parts, ", "))
}

// ExternalEntry is a fallback citation candidate outside the numbered
// source list.
type ExternalEntry struct {
	Item model.SignalItem
	blob string
}

// BuildExternalEntries collects distinct-URL fallback candidates,
// excluding URLs already present in the numbered source list.
func BuildExternalEntries(items []model.SignalItem, blockedURLs map[string]bool) []ExternalEntry {
	seen := make(map[string]bool, len(blockedURLs))
	for url := range blockedURLs {
		seen[url] = true
	}
	entries := make([]ExternalEntry, 0, len(items))
	for _, item := range items {
		url := strings.TrimSpace(item.URL)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		entries = append(entries, ExternalEntry{Item: item, blob: matchBlob(item)})
	}
	return entries
}

// FindExternalRef returns the single best-matching fallback URL for a
// line, or "" when nothing matches at all.
func FindExternalRef(line string, entries []ExternalEntry) string {
	cleaned := StripBulletPrefix(line)
	if cleaned == "" || len(entries) == 0 {
		return ""
	}
	tokens := lineTokens(cleaned)

	bestURL := ""
	bestScore := 0.0
	for _, entry := range entries {
		score := 0.0
		for token := range tokens {
			if strings.Contains(entry.blob, token) {
				score += 1.0
			}
		}
		if score > bestScore {
			bestScore = score
			bestURL = entry.Item.URL
		}
	}
	return bestURL
}

// AppendSourceRefs attaches citation suffixes to each line. Lines with
// no match against the numbered sources fall back, when force is set, to
// one supplementary link from the fallback pool; lines that still match
// nothing are kept without a suffix.
func AppendSourceRefs(lines []string, entries []SourceEntry, limit int, fallbackPool []model.SignalItem, force bool) []string {
	blocked := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.Item.URL != "" {
			blocked[entry.Item.URL] = true
		}
	}
	external := BuildExternalEntries(fallbackPool, blocked)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := StripBulletPrefix(line)
		if cleaned == "" {
			continue
		}
		suffix := FormatSourceRefs(FindSourceRefs(cleaned, entries, limit))
		if suffix == "" && force {
			if url := FindExternalRef(cleaned, external); url != "" {
				suffix = fmt.Sprintf("（来源补充: [外部链接](%s)）", url)
			}
		}
		out = append(out, cleaned+suffix)
	}
	return out
}
