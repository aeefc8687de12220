package news

import (
	"strings"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

// Collector produces raw signal items from one upstream source. Fetch
// blocks with a bounded timeout owned by the collector; callers log and
// skip a failing source rather than aborting the run.
type Collector interface {
	Fetch() ([]model.SignalItem, error)
	Name() string
}

func compactText(text string, maxLen int) string {
	compact := strings.Join(strings.Fields(text), " ")
	runes := []rune(compact)
	if len(runes) <= maxLen {
		return compact
	}
	return strings.TrimRight(string(runes[:maxLen-1]), " ") + "…"
}
