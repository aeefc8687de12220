package news

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

const (
	rssTitleChars   = 220
	rssSummaryChars = 500
)

// FeedConfig is one RSS source: a display name, the feed URL and the
// category its items are tagged with.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type RSSCollector struct {
	feeds    []FeedConfig
	maxItems int
	timeout  time.Duration
	parser   *gofeed.Parser
}

func NewRSSCollector(feeds []FeedConfig, maxItems int, timeout time.Duration) *RSSCollector {
	return &RSSCollector{
		feeds:    feeds,
		maxItems: maxItems,
		timeout:  timeout,
		parser:   gofeed.NewParser(),
	}
}

func (c *RSSCollector) Name() string {
	return "RSS"
}

// Fetch reads every configured feed and merges the per-feed buckets
// round-robin so early feeds cannot take all the slots.
func (c *RSSCollector) Fetch() ([]model.SignalItem, error) {
	perFeedCap := c.maxItems/max(1, len(c.feeds)) + 6
	if perFeedCap < 4 {
		perFeedCap = 4
	} else if perFeedCap > 18 {
		perFeedCap = 18
	}

	var buckets [][]model.SignalItem
	for _, feed := range c.feeds {
		if feed.URL == "" {
			continue
		}
		items := c.fetchFeed(feed, perFeedCap)
		if len(items) > 0 {
			buckets = append(buckets, items)
		}
	}

	merged := make([]model.SignalItem, 0, c.maxItems)
	for len(merged) < c.maxItems {
		progressed := false
		for i := range buckets {
			if len(buckets[i]) == 0 {
				continue
			}
			merged = append(merged, buckets[i][0])
			buckets[i] = buckets[i][1:]
			progressed = true
			if len(merged) >= c.maxItems {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return merged, nil
}

func (c *RSSCollector) fetchFeed(feed FeedConfig, limit int) []model.SignalItem {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	parsed, err := c.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil || parsed == nil {
		return nil
	}

	sourceName := feed.Name
	if sourceName == "" {
		sourceName = feed.URL
	}
	category := feed.Category
	if category == "" {
		category = model.CategoryGeneral
	}

	var items []model.SignalItem
	for _, entry := range parsed.Items {
		if len(items) >= limit {
			break
		}
		title := entry.Title
		if title == "" {
			title = "(untitled)"
		}
		items = append(items, model.SignalItem{
			Title:       compactText(title, rssTitleChars),
			URL:         entry.Link,
			Source:      sourceName,
			Category:    category,
			Summary:     compactText(entry.Description, rssSummaryChars),
			PublishedAt: entryTime(entry),
		})
	}
	return items
}

func entryTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Time{}
}
