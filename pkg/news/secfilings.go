package news

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

const (
	tickerMapURL   = "https://www.sec.gov/files/company_tickers.json"
	submissionsURL = "https://data.sec.gov/submissions/CIK%s.json"
)

// SECConfig controls the EDGAR filings collector.
type SECConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Tickers        []string `yaml:"tickers"`
	Forms          []string `yaml:"forms"`
	LookbackDays   int      `yaml:"lookback_days"`
	PerTickerLimit int      `yaml:"per_ticker_limit"`
	UserAgent      string   `yaml:"user_agent"`
}

type SECClient struct {
	cfg        SECConfig
	httpClient *http.Client
}

func NewSECClient(cfg SECConfig, timeout time.Duration) *SECClient {
	if len(cfg.Forms) == 0 {
		cfg.Forms = []string{"10-Q", "10-K", "8-K"}
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 45
	}
	if cfg.PerTickerLimit <= 0 {
		cfg.PerTickerLimit = 4
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "active-info local-research contact@example.com"
	}
	return &SECClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *SECClient) Name() string {
	return "SEC Filing"
}

func (c *SECClient) Fetch() ([]model.SignalItem, error) {
	if !c.cfg.Enabled || len(c.cfg.Tickers) == 0 {
		return nil, nil
	}

	tickerMap, err := c.fetchTickerCIKMap()
	if err != nil {
		return nil, err
	}

	var items []model.SignalItem
	for _, raw := range c.cfg.Tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		cik := tickerMap[ticker]
		if cik == "" {
			continue
		}
		filings, err := c.fetchFilings(ticker, cik)
		if err != nil {
			continue
		}
		items = append(items, filings...)
	}
	return items, nil
}

func (c *SECClient) get(url string, out any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sec fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sec fetch: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sec decode: %w", err)
	}
	return nil
}

func (c *SECClient) fetchTickerCIKMap() (map[string]string, error) {
	var payload map[string]secTickerRow
	if err := c.get(tickerMapURL, &payload); err != nil {
		return nil, err
	}
	mapping := make(map[string]string, len(payload))
	for _, row := range payload {
		ticker := strings.ToUpper(strings.TrimSpace(row.Ticker))
		if ticker == "" || row.CIK <= 0 {
			continue
		}
		mapping[ticker] = fmt.Sprintf("%010d", row.CIK)
	}
	return mapping, nil
}

func (c *SECClient) fetchFilings(ticker, cik string) ([]model.SignalItem, error) {
	var payload secSubmissions
	if err := c.get(fmt.Sprintf(submissionsURL, cik), &payload); err != nil {
		return nil, err
	}

	wantedForms := make(map[string]bool, len(c.cfg.Forms))
	for _, form := range c.cfg.Forms {
		wantedForms[strings.ToUpper(strings.TrimSpace(form))] = true
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -c.cfg.LookbackDays)

	recent := payload.Filings.Recent
	var items []model.SignalItem
	for idx, form := range recent.Form {
		if idx >= len(recent.FilingDate) {
			continue
		}
		formUpper := strings.ToUpper(form)
		if !wantedForms[formUpper] {
			continue
		}
		filedAt, err := time.Parse("2006-01-02", recent.FilingDate[idx])
		if err != nil || filedAt.Before(cutoff) {
			continue
		}

		link := "https://www.sec.gov/edgar/search/"
		if idx < len(recent.AccessionNumber) && idx < len(recent.PrimaryDocument) {
			accession := strings.ReplaceAll(recent.AccessionNumber[idx], "-", "")
			primaryDoc := recent.PrimaryDocument[idx]
			if accession != "" && primaryDoc != "" {
				cikTrimmed := strings.TrimLeft(cik, "0")
				link = fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/%s", cikTrimmed, accession, primaryDoc)
			}
		}

		summary := "SEC filing update"
		if idx < len(recent.PrimaryDocDescription) && recent.PrimaryDocDescription[idx] != "" {
			summary = recent.PrimaryDocDescription[idx]
		}

		items = append(items, model.SignalItem{
			Title:       fmt.Sprintf("%s filed %s (%s)", ticker, formUpper, filedAt.Format("2006-01-02")),
			URL:         link,
			Source:      c.Name(),
			Category:    model.CategoryEarnings,
			Summary:     summary,
			PublishedAt: filedAt,
		})
		if len(items) >= c.cfg.PerTickerLimit {
			break
		}
	}
	return items, nil
}

type secTickerRow struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
}

type secSubmissions struct {
	Filings struct {
		Recent secRecentFilings `json:"recent"`
	} `json:"filings"`
}

type secRecentFilings struct {
	Form                  []string `json:"form"`
	FilingDate            []string `json:"filingDate"`
	AccessionNumber       []string `json:"accessionNumber"`
	PrimaryDocument       []string `json:"primaryDocument"`
	PrimaryDocDescription []string `json:"primaryDocDescription"`
}
