package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

type fakeStore struct {
	summaries []model.ReportSummary
	total     int
	report    *model.Report
	err       error
}

func (f *fakeStore) ListReports(limit, offset int) ([]model.ReportSummary, error) {
	return f.summaries, f.err
}

func (f *fakeStore) GetReportTotal() (int, error) {
	return f.total, f.err
}

func (f *fakeStore) GetReport(reportDate string) (*model.Report, error) {
	return f.report, f.err
}

func (f *fakeStore) LatestReport() (*model.Report, error) {
	return f.report, f.err
}

func newTestRouter(store ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(store)
	r.GET("/reports", h.GetReports)
	r.GET("/reports/latest", h.GetLatestReport)
	r.GET("/reports/:date", h.GetReport)
	r.GET("/health", h.GetHealth)
	return r
}

func sampleReport() *model.Report {
	return &model.Report{
		ReportDate:  "2026-08-27",
		CreatedAt:   time.Date(2026, 8, 27, 7, 30, 0, 0, time.UTC),
		TotalItems:  42,
		Markdown:    "# 乐观者的主动信息汇总 - 2026-08-27",
		JSONContent: `{"report_date":"2026-08-27","analysis":{"overview":"ok"}}`,
	}
}

func TestGetReports_ReturnsList(t *testing.T) {
	store := &fakeStore{
		summaries: []model.ReportSummary{
			{ReportDate: "2026-08-27", CreatedAt: time.Now(), TotalItems: 42},
		},
		total: 1,
	}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports?limit=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, 1, len(res.Reports))
	assert.Equal(t, "2026-08-27", res.Reports[0].ReportDate)
}

func TestGetReports_DatabaseError(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetReport_ReturnsMarkdownAndPayload(t *testing.T) {
	store := &fakeStore{report: sampleReport()}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/2026-08-27", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "2026-08-27", res.ReportDate)
	assert.Equal(t, 42, res.TotalItems)
	assert.Equal(t, "# 乐观者的主动信息汇总 - 2026-08-27", res.Markdown)
	assert.NotEqual(t, nil, res.Payload)
	assert.Equal(t, "ok", res.Payload.Analysis.Overview)
}

func TestGetReport_InvalidDate(t *testing.T) {
	store := &fakeStore{report: sampleReport()}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/not-a-date", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport_NotFound(t *testing.T) {
	store := &fakeStore{err: sql.ErrNoRows}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/2026-08-01", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLatestReport_NoReportsYet(t *testing.T) {
	store := &fakeStore{err: sql.ErrNoRows}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHealth_Healthy(t *testing.T) {
	store := &fakeStore{total: 0}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "healthy", res["status"])
}

func TestGetHealth_Unhealthy(t *testing.T) {
	store := &fakeStore{err: errors.New("DB down")}
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unhealthy", res["status"])
}
