package news

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

const polymarketAPI = "https://gamma-api.polymarket.com/markets"

// PolymarketConfig controls the prediction-market collector.
type PolymarketConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Limit     int     `yaml:"limit"`
	MinVolume float64 `yaml:"min_volume"`
}

type PolymarketClient struct {
	cfg        PolymarketConfig
	httpClient *http.Client
}

func NewPolymarketClient(cfg PolymarketConfig, timeout time.Duration) *PolymarketClient {
	if cfg.Limit <= 0 {
		cfg.Limit = 40
	}
	if cfg.MinVolume <= 0 {
		cfg.MinVolume = 20000
	}
	return &PolymarketClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PolymarketClient) Name() string {
	return "Polymarket"
}

func (c *PolymarketClient) Fetch() ([]model.SignalItem, error) {
	if !c.cfg.Enabled {
		return nil, nil
	}

	url := fmt.Sprintf("%s?limit=%d&closed=false", polymarketAPI, c.cfg.Limit)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("polymarket fetch: %w", err)
	}
	defer resp.Body.Close()

	var markets []polymarketMarket
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, fmt.Errorf("polymarket decode: %w", err)
	}

	items := make([]model.SignalItem, 0, len(markets))
	for _, market := range markets {
		volume := firstFloat(market.Volume, market.VolumeNum)
		if volume < c.cfg.MinVolume {
			continue
		}

		question := market.Question
		if question == "" {
			question = "Polymarket signal"
		}
		link := "https://polymarket.com"
		if market.Slug != "" {
			link = "https://polymarket.com/event/" + market.Slug
		}

		publishedAt := time.Now().UTC()
		if market.EndDate != "" {
			if parsed, err := time.Parse(time.RFC3339, market.EndDate); err == nil {
				publishedAt = parsed
			}
		}

		liquidity := firstFloat(market.Liquidity, market.LiquidityNum)
		items = append(items, model.SignalItem{
			Title:       question,
			URL:         link,
			Source:      c.Name(),
			Category:    model.CategoryPredictionMarket,
			Summary:     fmt.Sprintf("Market volume: %.0f. Liquidity: %.0f.", volume, liquidity),
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}

func firstFloat(values ...json.Number) float64 {
	for _, v := range values {
		if v == "" {
			continue
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

type polymarketMarket struct {
	Question     string      `json:"question"`
	Slug         string      `json:"slug"`
	Volume       json.Number `json:"volume"`
	VolumeNum    json.Number `json:"volumeNum"`
	Liquidity    json.Number `json:"liquidity"`
	LiquidityNum json.Number `json:"liquidityNum"`
	EndDate      string      `json:"endDate"`
}
