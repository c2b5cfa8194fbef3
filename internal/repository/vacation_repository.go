package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"go.uber.org/zap"
)

// VacationRepository определяет методы для работы с заявками на отпуск.
// Все списки упорядочены от новых к старым.
type VacationRepository interface {
	CreateRequest(ctx context.Context, req *models.VacationRequest) error
	SaveRequest(ctx context.Context, req *models.VacationRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.VacationRequest, error)
	ListRequests(ctx context.Context) ([]models.VacationRequest, error)
	ListRequestsByEmployee(ctx context.Context, employeeID int64) ([]models.VacationRequest, error)
	ListRequestsByStatus(ctx context.Context, status models.VacationStatus) ([]models.VacationRequest, error)
	ListEmployeeRequestsByStatus(
		ctx context.Context,
		employeeID int64,
		status models.VacationStatus,
	) ([]models.VacationRequest, error)
	ListApprovedInRange(ctx context.Context, start, end models.Date) ([]models.VacationRequest, error)
}

const requestColumns = `id, employee_id, start_date, end_date, reason, status, admin_comment,
	decided_by, decided_at, created_at, updated_at`

// postgresVacationRepository реализует VacationRepository для PostgreSQL.
type postgresVacationRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewPostgresVacationRepository создает новый экземпляр репозитория заявок.
func NewPostgresVacationRepository(db *sqlx.DB, log *zap.Logger) VacationRepository {
	return &postgresVacationRepository{db: db, log: log.Named("VacationRepo")}
}

// CreateRequest вставляет новую заявку и заполняет ID и временные метки.
func (r *postgresVacationRepository) CreateRequest(ctx context.Context, req *models.VacationRequest) error {
	query := `INSERT INTO vacation_requests (employee_id, start_date, end_date, reason, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		req.EmployeeID, req.StartDate, req.EndDate, req.Reason, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		r.log.Error("Ошибка при создании заявки", zap.Int64("employee_id", req.EmployeeID), zap.Error(err))
		return fmt.Errorf("ошибка выполнения запроса на создание заявки: %w", err)
	}

	r.log.Debug("Заявка создана", zap.Int64("request_id", req.ID), zap.Int64("employee_id", req.EmployeeID))
	return nil
}

// SaveRequest сохраняет изменяемые поля заявки: статус и данные решения.
// Сотрудник и даты после создания не меняются.
func (r *postgresVacationRepository) SaveRequest(ctx context.Context, req *models.VacationRequest) error {
	query := `UPDATE vacation_requests
	          SET status=$2, admin_comment=$3, decided_by=$4, decided_at=$5, updated_at=NOW()
	          WHERE id=$1 RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		req.ID, req.Status, req.AdminComment, req.DecidedBy, req.DecidedAt,
	).Scan(&req.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		r.log.Error("Ошибка при сохранении заявки", zap.Int64("request_id", req.ID), zap.Error(err))
		return fmt.Errorf("ошибка выполнения запроса на обновление заявки: %w", err)
	}

	return nil
}

// GetRequestByID находит заявку по ID.
func (r *postgresVacationRepository) GetRequestByID(ctx context.Context, id int64) (*models.VacationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vacation_requests WHERE id=$1`
	var req models.VacationRequest

	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debug("Заявка не найдена", zap.Int64("request_id", id))
			return nil, ErrRequestNotFound
		}
		r.log.Error("Ошибка при поиске заявки", zap.Int64("request_id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка выполнения запроса на получение заявки: %w", err)
	}

	return &req, nil
}

// ListRequests возвращает все заявки.
func (r *postgresVacationRepository) ListRequests(ctx context.Context) ([]models.VacationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vacation_requests ORDER BY created_at DESC, id DESC`
	return r.selectRequests(ctx, "все заявки", query)
}

// ListRequestsByEmployee возвращает заявки сотрудника.
func (r *postgresVacationRepository) ListRequestsByEmployee(
	ctx context.Context,
	employeeID int64,
) ([]models.VacationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vacation_requests
	          WHERE employee_id=$1 ORDER BY created_at DESC, id DESC`
	return r.selectRequests(ctx, "заявки сотрудника", query, employeeID)
}

// ListRequestsByStatus возвращает заявки в указанном статусе.
func (r *postgresVacationRepository) ListRequestsByStatus(
	ctx context.Context,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vacation_requests
	          WHERE status=$1 ORDER BY created_at DESC, id DESC`
	return r.selectRequests(ctx, "заявки по статусу", query, status)
}

// ListEmployeeRequestsByStatus возвращает заявки сотрудника в указанном статусе.
func (r *postgresVacationRepository) ListEmployeeRequestsByStatus(
	ctx context.Context,
	employeeID int64,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vacation_requests
	          WHERE employee_id=$1 AND status=$2 ORDER BY created_at DESC, id DESC`
	return r.selectRequests(ctx, "заявки сотрудника по статусу", query, employeeID, status)
}

// ListApprovedInRange возвращает одобренные заявки всех сотрудников,
// пересекающие включительный диапазон [start, end].
func (r *postgresVacationRepository) ListApprovedInRange(
	ctx context.Context,
	start, end models.Date,
) ([]models.VacationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vacation_requests
	          WHERE status='APPROVED' AND start_date <= $2 AND end_date >= $1
	          ORDER BY start_date, id`
	return r.selectRequests(ctx, "одобренные заявки в диапазоне", query, start, end)
}

func (r *postgresVacationRepository) selectRequests(
	ctx context.Context,
	what string,
	query string,
	args ...any,
) ([]models.VacationRequest, error) {
	requests := make([]models.VacationRequest, 0)
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		r.log.Error("Ошибка при получении списка заявок", zap.String("query", what), zap.Error(err))
		return nil, fmt.Errorf("ошибка выполнения запроса на получение списка (%s): %w", what, err)
	}
	return requests, nil
}

// Кастомные ошибки репозитория заявок.
var (
	ErrRequestNotFound = errors.New("заявка на отпуск не найдена")
)
