package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// Snapshot is the raw fetch result for one day, written before any
// curation so a run can be replayed without hitting the sources again.
type Snapshot struct {
	DateKey   string        `json:"date_key"`
	FetchedAt string        `json:"fetched_at"`
	Items     []ItemPayload `json:"items"`
}

func SaveSnapshot(dir, dateKey string, items []model.SignalItem) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	snapshot := Snapshot{
		DateKey:   dateKey,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Items:     toItemPayloads(items),
	}
	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, dateKey+".download.json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func LoadSnapshot(path string) ([]model.SignalItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	return ToSignalItems(snapshot.Items), nil
}

// ToSignalItems converts persisted payload items back to pipeline
// items. Unparseable timestamps decode to the zero time.
func ToSignalItems(payloads []ItemPayload) []model.SignalItem {
	items := make([]model.SignalItem, 0, len(payloads))
	for _, p := range payloads {
		item := model.SignalItem{
			Title:    p.Title,
			URL:      p.URL,
			Source:   p.Source,
			Category: p.Category,
			Summary:  p.Summary,
			Score:    p.Score,
		}
		if p.PublishedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, p.PublishedAt); err == nil {
				item.PublishedAt = parsed
			}
		}
		items = append(items, item)
	}
	return items
}
