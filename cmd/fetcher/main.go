package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhaidewei/active-info-daily/internal/config"
	"github.com/zhaidewei/active-info-daily/internal/model"
	"github.com/zhaidewei/active-info-daily/internal/report"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	settings := config.Load()

	sources, err := config.LoadSources(settings.SourceConfigPath)
	if err != nil {
		log.Fatalf("error loading source config: %v", err)
	}

	collectors := config.BuildCollectors(settings, sources)
	if len(collectors) == 0 {
		slog.Error("no collectors configured")
		return
	}

	var items []model.SignalItem
	for _, collector := range collectors {
		fetched, err := collector.Fetch()
		if err != nil {
			slog.Error("error fetching items", "source", collector.Name(), "error", err)
			continue
		}
		slog.Info("fetch complete", "source", collector.Name(), "items", len(fetched))
		items = append(items, fetched...)
	}

	if len(items) == 0 {
		slog.Error("no items fetched from any source")
		return
	}

	dateKey := time.Now().UTC().Format("2006-01-02")
	path, err := report.SaveSnapshot(settings.SnapshotDir, dateKey, items)
	if err != nil {
		log.Fatalf("error writing snapshot: %v", err)
	}

	slog.Info("snapshot written", "path", path, "items", len(items))
}
