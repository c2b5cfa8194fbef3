package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
	"go.uber.org/zap"
)

// EmployeeService определяет чтение сотрудников с вычисленным балансом.
// Создание и изменение сотрудников выполняет внешний сервис пользователей.
type EmployeeService interface {
	Me(ctx context.Context, actor models.Actor) (*models.EmployeeView, error)
	GetEmployee(ctx context.Context, actor models.Actor, employeeID int64) (*models.EmployeeView, error)
	ListEmployees(ctx context.Context, actor models.Actor, activeOnly bool) ([]models.EmployeeView, error)
}

var _ EmployeeService = (*employeeService)(nil)

type employeeService struct {
	employees repository.EmployeeRepository
	presenter Presenter
	log       *zap.Logger
}

// NewEmployeeService создает сервис чтения сотрудников.
func NewEmployeeService(employees repository.EmployeeRepository, presenter Presenter, log *zap.Logger) EmployeeService {
	return &employeeService{employees: employees, presenter: presenter, log: log.Named("EmployeeService")}
}

// Me возвращает сотрудника, от имени которого выполнен вызов.
func (s *employeeService) Me(ctx context.Context, actor models.Actor) (*models.EmployeeView, error) {
	return s.GetEmployee(ctx, actor, actor.EmployeeID)
}

// GetEmployee возвращает сотрудника. Доступно администратору и самому сотруднику.
func (s *employeeService) GetEmployee(
	ctx context.Context,
	actor models.Actor,
	employeeID int64,
) (*models.EmployeeView, error) {
	if !actor.IsAdmin() && actor.EmployeeID != employeeID {
		return nil, newError(ErrForbidden, "нет доступа к сотруднику %d", employeeID)
	}

	employee, err := s.employees.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, newError(ErrNotFound, "сотрудник %d не найден", employeeID)
		}
		s.log.Error("Ошибка получения сотрудника", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения сотрудника %d: %w", employeeID, err)
	}

	return s.presenter.EmployeeView(ctx, employee)
}

// ListEmployees возвращает сотрудников. Доступно только администратору.
func (s *employeeService) ListEmployees(
	ctx context.Context,
	actor models.Actor,
	activeOnly bool,
) ([]models.EmployeeView, error) {
	if !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "список сотрудников доступен только администратору")
	}

	employees, err := s.employees.ListEmployees(ctx, activeOnly)
	if err != nil {
		s.log.Error("Ошибка получения списка сотрудников", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}

	return s.presenter.EmployeeViews(ctx, employees)
}
