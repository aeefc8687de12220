package handler

import (
	"time"

	"github.com/zhaidewei/active-info-daily/internal/model"
	"github.com/zhaidewei/active-info-daily/internal/report"
)

type ReportSummaryResponse struct {
	ReportDate string `json:"report_date"`
	CreatedAt  string `json:"created_at"`
	TotalItems int    `json:"total_items"`
}

type ReportListResponse struct {
	Reports []ReportSummaryResponse `json:"reports"`
	Total   int                     `json:"total"`
	Limit   int                     `json:"limit"`
	Offset  int                     `json:"offset"`
}

type ReportResponse struct {
	ReportDate string          `json:"report_date"`
	CreatedAt  string          `json:"created_at"`
	TotalItems int             `json:"total_items"`
	Markdown   string          `json:"markdown"`
	Payload    *report.Payload `json:"payload,omitempty"`
}

func toReportSummaryResponse(s model.ReportSummary) ReportSummaryResponse {
	return ReportSummaryResponse{
		ReportDate: s.ReportDate,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		TotalItems: s.TotalItems,
	}
}
