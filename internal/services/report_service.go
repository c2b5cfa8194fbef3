package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/storage"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// ReportPrefix - префикс ключей архивных отчетов в объектном хранилище.
	ReportPrefix = "reports/"
	// XLSXContentType - MIME тип книги Excel.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	calendarSheet = "Календарь"
)

var calendarHeader = []any{
	"Сотрудник", "Email", "Начало", "Окончание", "Дней", "Статус", "Комментарий администратора",
}

// Report - собранная книга XLSX.
type Report struct {
	FileName string
	Content  []byte
	Rows     int
}

// ReportService строит отчеты по календарю отпусков и хранит их архив.
type ReportService interface {
	BuildCalendarReport(ctx context.Context, actor models.Actor, start, end models.Date) (*Report, error)
	ArchiveCalendarReport(ctx context.Context, actor models.Actor, start, end models.Date) (*models.ReportInfo, error)
	DownloadReport(ctx context.Context, actor models.Actor, objectKey string) (io.ReadCloser, error)
}

var _ ReportService = (*reportService)(nil)

type reportService struct {
	vacations VacationService
	presenter Presenter
	files     storage.FileStorage
	log       *zap.Logger
}

// NewReportService создает сервис отчетов. files может быть nil, если объектное хранилище
// не настроено: тогда архивирование и скачивание возвращают ErrStorageDisabled.
func NewReportService(
	vacations VacationService,
	presenter Presenter,
	files storage.FileStorage,
	log *zap.Logger,
) ReportService {
	return &reportService{vacations: vacations, presenter: presenter, files: files, log: log.Named("ReportService")}
}

// BuildCalendarReport строит книгу с одобренными отпусками, пересекающими период.
func (s *reportService) BuildCalendarReport(
	ctx context.Context,
	actor models.Actor,
	start, end models.Date,
) (*Report, error) {
	if !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "отчеты доступны только администратору")
	}

	requests, err := s.vacations.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	views, err := s.presenter.RequestViews(ctx, requests)
	if err != nil {
		return nil, err
	}

	content, err := renderCalendar(views)
	if err != nil {
		s.log.Error("Ошибка построения XLSX", zap.Error(err))
		return nil, fmt.Errorf("ошибка построения отчета: %w", err)
	}

	return &Report{
		FileName: fmt.Sprintf("calendar_%s_%s.xlsx", start, end),
		Content:  content,
		Rows:     len(views),
	}, nil
}

func renderCalendar(views []models.VacationRequestView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", calendarSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(calendarSheet, "A1", &calendarHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err = f.SetRowStyle(calendarSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, v := range views {
		comment := ""
		if v.AdminComment != nil {
			comment = *v.AdminComment
		}
		row := []any{
			v.EmployeeName, v.EmployeeEmail, v.StartDate.String(), v.EndDate.String(),
			v.DaysCount, string(v.Status), comment,
		}
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
		if cellErr != nil {
			return nil, cellErr
		}
		if err = f.SetSheetRow(calendarSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err = f.SetColWidth(calendarSheet, "A", "B", 30); err != nil {
		return nil, err
	}
	if err = f.SetColWidth(calendarSheet, "C", "F", 12); err != nil {
		return nil, err
	}
	if err = f.SetColWidth(calendarSheet, "G", "G", 40); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveCalendarReport строит книгу и сохраняет ее в объектное хранилище.
func (s *reportService) ArchiveCalendarReport(
	ctx context.Context,
	actor models.Actor,
	start, end models.Date,
) (*models.ReportInfo, error) {
	if !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "отчеты доступны только администратору")
	}
	if s.files == nil {
		return nil, ErrStorageDisabled
	}

	report, err := s.BuildCalendarReport(ctx, actor, start, end)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%scalendar_%s_%s_%s.xlsx", ReportPrefix, start, end, uuid.NewString())
	size := int64(len(report.Content))
	if err = s.files.UploadFile(ctx, key, bytes.NewReader(report.Content), size, XLSXContentType); err != nil {
		return nil, fmt.Errorf("ошибка сохранения отчета: %w", err)
	}

	s.log.Info("Отчет сохранен в архив", zap.String("key", key), zap.Int("rows", report.Rows))
	return &models.ReportInfo{
		ObjectKey: key,
		SizeBytes: size,
		StartDate: start,
		EndDate:   end,
		Rows:      report.Rows,
	}, nil
}

// DownloadReport открывает архивный отчет. Вызывающий должен закрыть поток.
func (s *reportService) DownloadReport(
	ctx context.Context,
	actor models.Actor,
	objectKey string,
) (io.ReadCloser, error) {
	if !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "отчеты доступны только администратору")
	}
	if !strings.HasPrefix(objectKey, ReportPrefix) || strings.Contains(objectKey, "..") {
		return nil, newError(ErrValidation, "ключ '%s' не относится к архиву отчетов", objectKey)
	}
	if s.files == nil {
		return nil, ErrStorageDisabled
	}

	rc, err := s.files.DownloadFile(ctx, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, newError(ErrNotFound, "отчет '%s' не найден", objectKey)
		}
		return nil, fmt.Errorf("ошибка получения отчета: %w", err)
	}
	return rc, nil
}
