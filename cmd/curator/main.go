package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhaidewei/active-info-daily/db"
	"github.com/zhaidewei/active-info-daily/internal/config"
	"github.com/zhaidewei/active-info-daily/internal/curate"
	"github.com/zhaidewei/active-info-daily/internal/model"
	"github.com/zhaidewei/active-info-daily/internal/report"
	"github.com/zhaidewei/active-info-daily/internal/repository"
	"github.com/zhaidewei/active-info-daily/pkg/llm"
	"github.com/zhaidewei/active-info-daily/pkg/news"
)

const runLockTTL = 30 * time.Minute

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	dateFlag := flag.String("date", "", "report date (YYYY-MM-DD), defaults to today UTC")
	snapshotFlag := flag.String("snapshot", "", "rerun from a snapshot file instead of fetching")
	daemonFlag := flag.Bool("daemon", false, "run daily at SCHEDULE_AT instead of once")
	flag.Parse()

	settings := config.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	repo := repository.NewReportRepository(db.DB)

	if *daemonFlag {
		runDaily(settings, repo)
		return
	}

	dateKey := *dateFlag
	if dateKey == "" {
		dateKey = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		log.Fatalf("invalid -date %q: %v", dateKey, err)
	}

	if err := runOnce(settings, repo, dateKey, *snapshotFlag); err != nil {
		log.Fatalf("curate run failed: %v", err)
	}
}

func runDaily(settings config.Settings, repo *repository.ReportRepository) {
	schedule, err := time.Parse("15:04", settings.ScheduleAt)
	if err != nil {
		log.Fatalf("invalid SCHEDULE_AT %q: %v", settings.ScheduleAt, err)
	}

	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), schedule.Hour(), schedule.Minute(), 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		slog.Info("next scheduled run", "at", next.Format(time.RFC3339))
		time.Sleep(time.Until(next))

		dateKey := time.Now().UTC().Format("2006-01-02")
		if err := runOnce(settings, repo, dateKey, ""); err != nil {
			slog.Error("scheduled run failed", "report_date", dateKey, "error", err)
		}
	}
}

func runOnce(settings config.Settings, repo *repository.ReportRepository, dateKey, snapshotPath string) error {
	acquired, err := db.AcquireRunLock(dateKey, runLockTTL)
	if err != nil {
		return fmt.Errorf("run lock: %w", err)
	}
	if !acquired {
		slog.Info("another run holds the lock, skipping", "report_date", dateKey)
		return nil
	}
	defer db.ReleaseRunLock(dateKey)

	items, err := loadItems(settings, dateKey, snapshotPath)
	if err != nil {
		return err
	}

	if settings.ContextEnabled {
		enrichSummaries(items, settings.RequestTimeout)
	}

	hist, err := repo.GetRecentHistory(dateKey, settings.HistoryReports)
	if err != nil {
		slog.Warn("could not load novelty history, running without it", "error", err)
		hist = curate.NewHistory()
	}

	analyzer, scorer := buildAnalyzer(settings)
	pipeline := curate.NewPipeline(curate.DefaultConfig(), analyzer, llm.NewHeuristicAnalyzer(), scorer, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := pipeline.Curate(ctx, dateKey, items, hist)
	if err != nil {
		return err
	}

	markdown := report.BuildMarkdown(dateKey, result.Analysis, result.TopItems, result.Ranked)
	jsonContent, err := report.BuildJSONPayload(result)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	rep := model.Report{
		ReportDate:  dateKey,
		TotalItems:  result.Stats.UniqueItems,
		Markdown:    markdown,
		JSONContent: jsonContent,
	}
	if err := repo.SaveReport(&rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("report saved",
		"report_date", dateKey,
		"raw_items", result.Stats.RawItems,
		"unique_items", result.Stats.UniqueItems,
		"top_items", len(result.TopItems))
	return nil
}

func loadItems(settings config.Settings, dateKey, snapshotPath string) ([]model.SignalItem, error) {
	if snapshotPath != "" {
		items, err := report.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		slog.Info("loaded snapshot", "path", snapshotPath, "items", len(items))
		return items, nil
	}

	sources, err := config.LoadSources(settings.SourceConfigPath)
	if err != nil {
		return nil, err
	}
	collectors := config.BuildCollectors(settings, sources)
	if len(collectors) == 0 {
		return nil, fmt.Errorf("no collectors configured")
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

	if path, err := report.SaveSnapshot(settings.SnapshotDir, dateKey, items); err != nil {
		slog.Warn("could not write snapshot", "error", err)
	} else {
		slog.Info("snapshot written", "path", path)
	}
	return items, nil
}

// enrichSummaries fills in missing summaries for the first few items
// from the article text itself. Best effort only.
func enrichSummaries(items []model.SignalItem, timeout time.Duration) {
	fetcher := news.NewContextFetcher(timeout)
	enriched := 0
	for i := range items {
		if enriched >= 10 {
			break
		}
		if items[i].Summary != "" || items[i].URL == "" {
			continue
		}
		if text := fetcher.FetchArticleContext(items[i].URL); text != "" {
			items[i].Summary = text
			enriched++
		}
	}
	if enriched > 0 {
		slog.Info("summaries enriched from article text", "count", enriched)
	}
}

func buildAnalyzer(settings config.Settings) (curate.Analyzer, curate.ExternalScorer) {
	var analyzer curate.Analyzer
	var scorer curate.ExternalScorer

	switch settings.AnalysisProvider {
	case "openai":
		if settings.OpenAIKey == "" {
			slog.Warn("ANALYSIS_PROVIDER=openai but OPENAI_API_KEY is not set, using heuristic")
			break
		}
		client := llm.NewOpenAIClient(settings.OpenAIKey)
		analyzer = client
		scorer = client
	case "anthropic":
		if settings.AnthropicKey == "" {
			slog.Warn("ANALYSIS_PROVIDER=anthropic but ANTHROPIC_API_KEY is not set, using heuristic")
			break
		}
		analyzer = llm.NewAnthropicClient(settings.AnthropicKey)
		if settings.OpenAIKey != "" {
			scorer = llm.NewOpenAIClient(settings.OpenAIKey)
		}
	case "heuristic":
	default:
		slog.Warn("unknown ANALYSIS_PROVIDER, using heuristic", "provider", settings.AnalysisProvider)
	}

	return analyzer, scorer
}
