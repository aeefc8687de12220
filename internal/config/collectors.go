package config

import (
	"log/slog"

	"github.com/zhaidewei/active-info-daily/pkg/news"
)

// BuildCollectors assembles the enabled collectors from the env settings
// and the YAML source config. Sources without the credentials they need
// are skipped with a log line, not an error.
func BuildCollectors(settings Settings, sources Sources) []news.Collector {
	var collectors []news.Collector

	if len(sources.RSSFeeds) > 0 {
		collectors = append(collectors, news.NewRSSCollector(sources.RSSFeeds, settings.MaxItems, settings.RequestTimeout))
	}
	if sources.Polymarket.Enabled {
		collectors = append(collectors, news.NewPolymarketClient(sources.Polymarket, settings.RequestTimeout))
	}
	if sources.SECFilings.Enabled {
		collectors = append(collectors, news.NewSECClient(sources.SECFilings, settings.RequestTimeout))
	}
	if sources.Finnhub.Enabled {
		if settings.FinnhubKey == "" {
			slog.Warn("finnhub source enabled but FINNHUB_API_KEY is not set, skipping")
		} else {
			collectors = append(collectors, news.NewFinnhubClient(settings.FinnhubKey, sources.Finnhub.Limit))
		}
	}

	return collectors
}
