package news

import (
	"context"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

type FinnhubClient struct {
	client *finnhub.DefaultApiService
	limit  int
}

func NewFinnhubClient(apiKey string, limit int) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	if limit <= 0 {
		limit = 30
	}
	return &FinnhubClient{client: client, limit: limit}
}

func (c *FinnhubClient) Name() string {
	return "Finnhub"
}

// Fetch pulls general market news and tags it as earnings/market signal
// material; related tickers are folded into the summary so the
// attribution matcher can see them.
func (c *FinnhubClient) Fetch() ([]model.SignalItem, error) {
	res, _, err := c.client.MarketNews(context.Background()).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	items := make([]model.SignalItem, 0, c.limit)
	for _, entry := range res {
		if len(items) >= c.limit {
			break
		}
		item := model.SignalItem{
			Source:   c.Name(),
			Category: model.CategoryEarnings,
		}
		if entry.Headline != nil {
			item.Title = *entry.Headline
		}
		if item.Title == "" {
			continue
		}
		if entry.Summary != nil {
			item.Summary = *entry.Summary
		}
		if entry.Url != nil {
			item.URL = *entry.Url
		}
		if entry.Datetime != nil {
			item.PublishedAt = time.Unix(*entry.Datetime, 0).UTC()
		}
		if entry.Related != nil && *entry.Related != "" {
			tickers := strings.ReplaceAll(*entry.Related, ",", " ")
			item.Summary = strings.TrimSpace(item.Summary + " Related: " + tickers)
		}
		items = append(items, item)
	}
	return items, nil
}
