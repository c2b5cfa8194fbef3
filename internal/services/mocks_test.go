package services_test

import (
	"context"
	"io"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

var anyCtx = mock.Anything

// MockVacationRepository is a mock for VacationRepository.
type MockVacationRepository struct {
	mock.Mock
}

func (m *MockVacationRepository) requests(args mock.Arguments) ([]models.VacationRequest, error) {
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.VacationRequest), args.Error(1)
}

func (m *MockVacationRepository) CreateRequest(ctx context.Context, req *models.VacationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockVacationRepository) SaveRequest(ctx context.Context, req *models.VacationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockVacationRepository) GetRequestByID(ctx context.Context, id int64) (*models.VacationRequest, error) {
	args := m.Called(ctx, id)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.VacationRequest), args.Error(1)
}

func (m *MockVacationRepository) ListRequests(ctx context.Context) ([]models.VacationRequest, error) {
	return m.requests(m.Called(ctx))
}

func (m *MockVacationRepository) ListRequestsByEmployee(
	ctx context.Context,
	employeeID int64,
) ([]models.VacationRequest, error) {
	return m.requests(m.Called(ctx, employeeID))
}

func (m *MockVacationRepository) ListRequestsByStatus(
	ctx context.Context,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	return m.requests(m.Called(ctx, status))
}

func (m *MockVacationRepository) ListEmployeeRequestsByStatus(
	ctx context.Context,
	employeeID int64,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	return m.requests(m.Called(ctx, employeeID, status))
}

func (m *MockVacationRepository) ListApprovedInRange(
	ctx context.Context,
	start, end models.Date,
) ([]models.VacationRequest, error) {
	return m.requests(m.Called(ctx, start, end))
}

// MockEmployeeRepository is a mock for EmployeeRepository.
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	args := m.Called(ctx, id)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) GetEmployeesByIDs(ctx context.Context, ids []int64) ([]models.Employee, error) {
	args := m.Called(ctx, ids)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	args := m.Called(ctx, activeOnly)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.([]models.Employee), args.Error(1)
}

// MockFileStorage is a mock for FileStorage.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadFile(
	ctx context.Context,
	objectKey string,
	reader io.Reader,
	size int64,
	contentType string,
) error {
	return m.Called(ctx, objectKey, reader, size, contentType).Error(0)
}

func (m *MockFileStorage) DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	ret := args.Get(0)
	if ret == nil {
		return nil, args.Error(1)
	}
	//nolint:errcheck // Ошибки кастования в моках приемлемы
	return ret.(io.ReadCloser), args.Error(1)
}
