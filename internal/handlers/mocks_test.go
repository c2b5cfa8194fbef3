package handlers_test

import (
	"context"
	"io"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockVacationService is a mock for VacationService.
type MockVacationService struct {
	mock.Mock
}

func (m *MockVacationService) one(args mock.Arguments) (*models.VacationRequest, error) {
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.VacationRequest), args.Error(1)
}

func (m *MockVacationService) list(args mock.Arguments) ([]models.VacationRequest, error) {
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.VacationRequest), args.Error(1)
}

func (m *MockVacationService) Submit(
	ctx context.Context,
	actor models.Actor,
	input models.SubmitVacationRequest,
) (*models.VacationRequest, error) {
	return m.one(m.Called(ctx, actor, input))
}

func (m *MockVacationService) Decide(
	ctx context.Context,
	actor models.Actor,
	requestID int64,
	input models.DecideVacationRequest,
) (*models.VacationRequest, error) {
	return m.one(m.Called(ctx, actor, requestID, input))
}

func (m *MockVacationService) Cancel(
	ctx context.Context,
	actor models.Actor,
	requestID int64,
) (*models.VacationRequest, error) {
	return m.one(m.Called(ctx, actor, requestID))
}

func (m *MockVacationService) GetRequest(
	ctx context.Context,
	actor models.Actor,
	requestID int64,
) (*models.VacationRequest, error) {
	return m.one(m.Called(ctx, actor, requestID))
}

func (m *MockVacationService) ListVisible(ctx context.Context, actor models.Actor) ([]models.VacationRequest, error) {
	return m.list(m.Called(ctx, actor))
}

func (m *MockVacationService) ListAll(ctx context.Context) ([]models.VacationRequest, error) {
	return m.list(m.Called(ctx))
}

func (m *MockVacationService) ListByEmployee(
	ctx context.Context,
	actor models.Actor,
	employeeID int64,
) ([]models.VacationRequest, error) {
	return m.list(m.Called(ctx, actor, employeeID))
}

func (m *MockVacationService) ListByStatus(
	ctx context.Context,
	actor models.Actor,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	return m.list(m.Called(ctx, actor, status))
}

func (m *MockVacationService) ListInRange(ctx context.Context, start, end models.Date) ([]models.VacationRequest, error) {
	return m.list(m.Called(ctx, start, end))
}

func (m *MockVacationService) ListOnDate(ctx context.Context, date models.Date) ([]models.VacationRequest, error) {
	return m.list(m.Called(ctx, date))
}

// MockEmployeeService is a mock for EmployeeService.
type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) Me(ctx context.Context, actor models.Actor) (*models.EmployeeView, error) {
	args := m.Called(ctx, actor)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.EmployeeView), args.Error(1)
}

func (m *MockEmployeeService) GetEmployee(
	ctx context.Context,
	actor models.Actor,
	employeeID int64,
) (*models.EmployeeView, error) {
	args := m.Called(ctx, actor, employeeID)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.EmployeeView), args.Error(1)
}

func (m *MockEmployeeService) ListEmployees(
	ctx context.Context,
	actor models.Actor,
	activeOnly bool,
) ([]models.EmployeeView, error) {
	args := m.Called(ctx, actor, activeOnly)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.EmployeeView), args.Error(1)
}

// MockReportService is a mock for ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) BuildCalendarReport(
	ctx context.Context,
	actor models.Actor,
	start, end models.Date,
) (*services.Report, error) {
	args := m.Called(ctx, actor, start, end)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*services.Report), args.Error(1)
}

func (m *MockReportService) ArchiveCalendarReport(
	ctx context.Context,
	actor models.Actor,
	start, end models.Date,
) (*models.ReportInfo, error) {
	args := m.Called(ctx, actor, start, end)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.ReportInfo), args.Error(1)
}

func (m *MockReportService) DownloadReport(
	ctx context.Context,
	actor models.Actor,
	objectKey string,
) (io.ReadCloser, error) {
	args := m.Called(ctx, actor, objectKey)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(io.ReadCloser), args.Error(1)
}
