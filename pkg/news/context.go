package news

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const contextMaxChars = 2500

// ContextFetcher pulls readable article text through a Jina-reader
// style proxy to enrich shortlist summaries before analysis.
type ContextFetcher struct {
	httpClient *http.Client
	baseURL    string
}

func NewContextFetcher(timeout time.Duration) *ContextFetcher {
	return &ContextFetcher{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://r.jina.ai",
	}
}

// FetchArticleContext returns up to contextMaxChars of article text, or
// "" on any failure. Enrichment is best-effort only.
func (c *ContextFetcher) FetchArticleContext(articleURL string) string {
	parsed, err := url.Parse(articleURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	query := ""
	if parsed.RawQuery != "" {
		query = "?" + parsed.RawQuery
	}
	readerURL := fmt.Sprintf("%s/http://%s%s%s", c.baseURL, parsed.Host, parsed.Path, query)

	resp, err := c.httpClient.Get(readerURL)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(strings.ReplaceAll(string(body), "\x00", " "))
	runes := []rune(text)
	if len(runes) > contextMaxChars {
		text = string(runes[:contextMaxChars])
	}
	return text
}
