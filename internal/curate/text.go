package curate

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	nonWordPattern   = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	signaturePattern = regexp.MustCompile(`[^a-z0-9\p{Han}]+`)
	bulletPattern    = regexp.MustCompile(`^[-*\x{2022}\x{00b7}]+\s*`)
	refSuffixPattern = regexp.MustCompile(`（来源[:：]\s*.*?）`)
)

// CanonicalURL reduces a URL to lowercase host + path with the trailing
// slash, scheme, query and fragment stripped. Returns "" when the input
// is not an absolute URL.
func CanonicalURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	path := strings.TrimRight(parsed.Path, "/")
	return strings.ToLower(parsed.Host) + strings.ToLower(path)
}

// NormalizeTitle lowercases a title, strips embedded URLs and
// punctuation, and collapses whitespace.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(title)
	lowered = urlPattern.ReplaceAllString(lowered, " ")
	lowered = nonWordPattern.ReplaceAllString(lowered, " ")
	return strings.Join(strings.Fields(lowered), " ")
}

// StripBulletPrefix removes leading list markers from a narrative line.
func StripBulletPrefix(line string) string {
	cleaned := strings.TrimSpace(line)
	cleaned = bulletPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// Signature projects a title or narrative line onto the alphabet used
// for fuzzy equality: lowercase latin letters, digits and Han runes.
// Citation suffixes and bullet markers do not contribute.
func Signature(text string) string {
	cleaned := StripBulletPrefix(text)
	cleaned = refSuffixPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ToLower(cleaned)
	return signaturePattern.ReplaceAllString(cleaned, "")
}

// similarityRatio is a character-level similarity in [0, 1], defined as
// 2*LCS/(len(a)+len(b)) over runes. It tracks difflib-style ratios
// closely enough for the thresholds used here, which are tuned against
// grouping behavior rather than exact values.
func similarityRatio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 1.0
		}
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	ar := []rune(a)
	br := []rune(b)
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for i := 1; i <= len(ar); i++ {
		for j := 1; j <= len(br); j++ {
			switch {
			case ar[i-1] == br[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	lcs := prev[len(br)]
	return 2.0 * float64(lcs) / float64(len(ar)+len(br))
}

// SignaturesMatch reports fuzzy equality of two normalized signatures:
// exact match, substring containment of at least minContainLen runes, or
// similarity ratio at or above threshold.
func SignaturesMatch(a, b string, minContainLen int, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	shorter, longer := a, b
	if len([]rune(shorter)) > len([]rune(longer)) {
		shorter, longer = longer, shorter
	}
	if len([]rune(shorter)) >= minContainLen && strings.Contains(longer, shorter) {
		return true
	}
	return similarityRatio(a, b) >= threshold
}
