package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zhaidewei/active-info-daily/internal/model"
	"github.com/zhaidewei/active-info-daily/internal/report"
)

type ReportStore interface {
	ListReports(limit, offset int) ([]model.ReportSummary, error)
	GetReportTotal() (int, error)
	GetReport(reportDate string) (*model.Report, error)
	LatestReport() (*model.Report, error)
}

type ReportHandler struct {
	repository ReportStore
}

func NewReportHandler(repository ReportStore) *ReportHandler {
	return &ReportHandler{repository: repository}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	limit := getQueryInt("limit", 20, c)
	offset := getQueryInt("offset", 0, c)

	summaries, err := h.repository.ListReports(limit, offset)
	if err != nil {
		slog.Error("error listing reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetReportTotal()
	if err != nil {
		slog.Error("error fetching report total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := ReportListResponse{
		Reports: []ReportSummaryResponse{},
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, s := range summaries {
		res.Reports = append(res.Reports, toReportSummaryResponse(s))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	rep, err := h.repository.LatestReport()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No reports yet"})
			return
		}
		slog.Error("error fetching latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.respondWithReport(c, rep)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	reportDate := c.Param("date")
	if _, err := time.Parse("2006-01-02", reportDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report date, expected YYYY-MM-DD"})
		return
	}

	rep, err := h.repository.GetReport(reportDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		slog.Error("error fetching report", "report_date", reportDate, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.respondWithReport(c, rep)
}

func (h *ReportHandler) respondWithReport(c *gin.Context, rep *model.Report) {
	res := ReportResponse{
		ReportDate: rep.ReportDate,
		CreatedAt:  rep.CreatedAt.Format(time.RFC3339),
		TotalItems: rep.TotalItems,
		Markdown:   rep.Markdown,
	}
	if payload, err := report.ParsePayload(rep.JSONContent); err == nil {
		res.Payload = &payload
	} else {
		slog.Warn("stored report payload is not parseable", "report_date", rep.ReportDate, "error", err)
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetReportTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}
