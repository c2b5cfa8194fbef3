package handlers

import (
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"go.uber.org/zap"
)

// ReportHandler обрабатывает HTTP-запросы отчетов по календарю отпусков.
type ReportHandler struct {
	reports services.ReportService
	log     *zap.Logger
}

// NewReportHandler создает новый экземпляр ReportHandler.
func NewReportHandler(reports services.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log.Named("ReportHandler")}
}

// Routes возвращает маршруты /api/reports.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/calendar", h.Calendar)
	r.Post("/calendar", h.Archive)
	r.Get("/download", h.Download)
	return r
}

// Calendar обрабатывает GET /api/reports/calendar: отдает XLSX без сохранения.
func (h *ReportHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	start, end, err := dateRangeQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	report, err := h.reports.BuildCalendarReport(r.Context(), actor, start, end)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	setAttachmentHeaders(w, report.FileName, int64(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(report.Content); err != nil {
		h.log.Warn("Ошибка отправки отчета", zap.Error(err))
	}
}

// Archive обрабатывает POST /api/reports/calendar: сохраняет отчет в объектное хранилище.
func (h *ReportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	start, end, err := dateRangeQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	info, err := h.reports.ArchiveCalendarReport(r.Context(), actor, start, end)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, info)
}

// Download обрабатывает GET /api/reports/download?key=.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	key := r.URL.Query().Get("key")

	rc, err := h.reports.DownloadReport(r.Context(), actor, key)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	defer rc.Close()

	setAttachmentHeaders(w, path.Base(key), -1)
	w.WriteHeader(http.StatusOK)
	if _, err = io.Copy(w, rc); err != nil {
		h.log.Warn("Ошибка отправки архивного отчета", zap.String("key", key), zap.Error(err))
	}
}

func setAttachmentHeaders(w http.ResponseWriter, fileName string, size int64) {
	w.Header().Set("Content-Type", services.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
}
