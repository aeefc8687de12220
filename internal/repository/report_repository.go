package repository

import (
	"database/sql"

	"github.com/zhaidewei/active-info-daily/internal/curate"
	"github.com/zhaidewei/active-info-daily/internal/model"
	"github.com/zhaidewei/active-info-daily/internal/report"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SaveReport upserts one daily report; rerunning a date replaces its
// content.
func (r *ReportRepository) SaveReport(rep *model.Report) error {
	return r.db.QueryRow(`
		INSERT INTO reports(report_date, total_items, markdown, json_content)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (report_date) DO UPDATE
		SET total_items = EXCLUDED.total_items,
		    markdown = EXCLUDED.markdown,
		    json_content = EXCLUDED.json_content,
		    created_at = NOW()
		RETURNING created_at
	`, rep.ReportDate, rep.TotalItems, rep.Markdown, rep.JSONContent).Scan(&rep.CreatedAt)
}

func (r *ReportRepository) GetReport(reportDate string) (*model.Report, error) {
	var rep model.Report
	err := r.db.QueryRow(`
		SELECT report_date, created_at, total_items, markdown, json_content
		FROM reports
		WHERE report_date = $1
	`, reportDate).Scan(&rep.ReportDate, &rep.CreatedAt, &rep.TotalItems, &rep.Markdown, &rep.JSONContent)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) LatestReport() (*model.Report, error) {
	var rep model.Report
	err := r.db.QueryRow(`
		SELECT report_date, created_at, total_items, markdown, json_content
		FROM reports
		ORDER BY report_date DESC
		LIMIT 1
	`).Scan(&rep.ReportDate, &rep.CreatedAt, &rep.TotalItems, &rep.Markdown, &rep.JSONContent)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) ListReports(limit, offset int) ([]model.ReportSummary, error) {
	rows, err := r.db.Query(`
		SELECT report_date, created_at, total_items
		FROM reports
		ORDER BY report_date DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.ReportSummary
	for rows.Next() {
		var s model.ReportSummary
		if err := rows.Scan(&s.ReportDate, &s.CreatedAt, &s.TotalItems); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *ReportRepository) GetReportTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&total)
	return total, err
}

// GetRecentHistory rebuilds the novelty history from the last k reports
// strictly before beforeDate. Payloads that fail to parse are skipped;
// a partial history beats no history.
func (r *ReportRepository) GetRecentHistory(beforeDate string, k int) (*curate.History, error) {
	rows, err := r.db.Query(`
		SELECT json_content
		FROM reports
		WHERE report_date < $1
		ORDER BY report_date DESC
		LIMIT $2
	`, beforeDate, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hist := curate.NewHistory()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		payload, err := report.ParsePayload(raw)
		if err != nil {
			continue
		}
		payload.Accumulate(hist)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hist, nil
}
