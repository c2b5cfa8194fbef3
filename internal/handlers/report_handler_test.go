package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/vacationkeeper/internal/handlers"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReportRouter(svc services.ReportService, actor *models.Actor) http.Handler {
	r := chi.NewRouter()
	r.Use(withActor(actor))
	r.Mount("/api/reports", handlers.NewReportHandler(svc, zap.NewNop()).Routes())
	return r
}

func TestReportHandler_Calendar(t *testing.T) {
	start := models.NewDate(2024, time.July, 1)
	end := models.NewDate(2024, time.July, 31)
	svc := new(MockReportService)
	svc.On("BuildCalendarReport", mock.Anything, adminActor, start, end).Return(&services.Report{
		FileName: "calendar_2024-07-01_2024-07-31.xlsx",
		Content:  []byte("xlsx-bytes"),
		Rows:     2,
	}, nil)
	router := newReportRouter(svc, &adminActor)

	rr := doRequest(router, http.MethodGet, "/api/reports/calendar?start_date=2024-07-01&end_date=2024-07-31", "")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, services.XLSXContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="calendar_2024-07-01_2024-07-31.xlsx"`,
		rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "10", rr.Header().Get("Content-Length"))
	assert.Equal(t, "xlsx-bytes", rr.Body.String())
	svc.AssertExpectations(t)
}

func TestReportHandler_Archive(t *testing.T) {
	start := models.NewDate(2024, time.July, 1)
	end := models.NewDate(2024, time.July, 31)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{"Сохранено", nil, http.StatusCreated, `"object_key":"reports/calendar.xlsx"`},
		{"Хранилище не настроено", services.ErrStorageDisabled, http.StatusServiceUnavailable,
			`"error":"STORAGE_DISABLED"`},
		{"Не администратор", fmt.Errorf("%w: только администратор", services.ErrForbidden), http.StatusForbidden,
			`"error":"FORBIDDEN"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			if tt.err != nil {
				svc.On("ArchiveCalendarReport", mock.Anything, adminActor, start, end).Return(nil, tt.err)
			} else {
				svc.On("ArchiveCalendarReport", mock.Anything, adminActor, start, end).Return(&models.ReportInfo{
					ObjectKey: "reports/calendar.xlsx", SizeBytes: 128, StartDate: start, EndDate: end, Rows: 3,
				}, nil)
			}
			router := newReportRouter(svc, &adminActor)

			rr := doRequest(router, http.MethodPost,
				"/api/reports/calendar?start_date=2024-07-01&end_date=2024-07-31", "")

			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_Download(t *testing.T) {
	t.Run("Отчет найден", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("DownloadReport", mock.Anything, adminActor, "reports/calendar_a.xlsx").
			Return(io.NopCloser(strings.NewReader("archived")), nil)
		router := newReportRouter(svc, &adminActor)

		rr := doRequest(router, http.MethodGet, "/api/reports/download?key=reports/calendar_a.xlsx", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, `attachment; filename="calendar_a.xlsx"`, rr.Header().Get("Content-Disposition"))
		assert.Empty(t, rr.Header().Get("Content-Length"))
		assert.Equal(t, "archived", rr.Body.String())
	})

	t.Run("Отчет не найден", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("DownloadReport", mock.Anything, adminActor, "reports/missing.xlsx").
			Return(nil, fmt.Errorf("%w: отчет reports/missing.xlsx", services.ErrNotFound))
		router := newReportRouter(svc, &adminActor)

		rr := doRequest(router, http.MethodGet, "/api/reports/download?key=reports/missing.xlsx", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, services.KindNotFound, resp.Error)
	})
}

func TestReportHandler_MissingDates(t *testing.T) {
	svc := new(MockReportService)
	router := newReportRouter(svc, &adminActor)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rr := doRequest(router, method, "/api/reports/calendar?start_date=2024-07-01", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, method)
	}
	svc.AssertExpectations(t)
}
