package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"go.uber.org/zap"
)

// EmployeeRepository определяет методы чтения сотрудников.
// Записью сотрудников владеет сервис пользователей, ядро только читает.
type EmployeeRepository interface {
	GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error)
	GetEmployeesByIDs(ctx context.Context, ids []int64) ([]models.Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
}

const employeeColumns = `id, first_name, last_name, email, role, total_vacation_days, active, created_at, updated_at`

// postgresEmployeeRepository реализует EmployeeRepository для PostgreSQL.
type postgresEmployeeRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewPostgresEmployeeRepository создает новый экземпляр репозитория сотрудников для PostgreSQL.
func NewPostgresEmployeeRepository(db *sqlx.DB, log *zap.Logger) EmployeeRepository {
	return &postgresEmployeeRepository{db: db, log: log.Named("EmployeeRepo")}
}

// GetEmployeeByID находит сотрудника по ID.
func (r *postgresEmployeeRepository) GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	var employee models.Employee

	err := r.db.GetContext(ctx, &employee, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debug("Сотрудник не найден", zap.Int64("employee_id", id))
			return nil, ErrEmployeeNotFound
		}
		r.log.Error("Ошибка при поиске сотрудника", zap.Int64("employee_id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка выполнения запроса на получение сотрудника: %w", err)
	}

	return &employee, nil
}

// GetEmployeesByIDs возвращает сотрудников с указанными ID одним запросом.
// Отсутствующие ID молча пропускаются.
func (r *postgresEmployeeRepository) GetEmployeesByIDs(ctx context.Context, ids []int64) ([]models.Employee, error) {
	if len(ids) == 0 {
		return []models.Employee{}, nil
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1) ORDER BY id`
	employees := make([]models.Employee, 0, len(ids))

	if err := r.db.SelectContext(ctx, &employees, query, pq.Array(ids)); err != nil {
		r.log.Error("Ошибка при пакетном получении сотрудников", zap.Int("count", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("ошибка выполнения запроса на получение сотрудников: %w", err)
	}

	return employees, nil
}

// ListEmployees возвращает сотрудников, отсортированных по фамилии и имени.
func (r *postgresEmployeeRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY last_name, first_name, id`

	employees := make([]models.Employee, 0)
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		r.log.Error("Ошибка при получении списка сотрудников", zap.Error(err))
		return nil, fmt.Errorf("ошибка выполнения запроса на получение списка сотрудников: %w", err)
	}

	return employees, nil
}

// Кастомные ошибки репозитория.
var (
	ErrEmployeeNotFound = errors.New("сотрудник не найден")
)
