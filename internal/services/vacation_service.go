package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/maynagashev/vacationkeeper/internal/lock"
	"github.com/maynagashev/vacationkeeper/internal/metrics"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
	"go.uber.org/zap"
)

// MaxTextLength - максимальная длина причины и комментария администратора в символах.
const MaxTextLength = 500

// Имена операций в метриках.
const (
	opSubmit = "submit"
	opDecide = "decide"
	opCancel = "cancel"
)

// Clock возвращает текущий момент. Календарный день берется в часовом поясе возвращенного времени.
type Clock func() time.Time

// SystemClock возвращает часы реального времени в часовом поясе loc.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// VacationService определяет жизненный цикл заявок и операции чтения.
type VacationService interface {
	Submit(ctx context.Context, actor models.Actor, input models.SubmitVacationRequest) (*models.VacationRequest, error)
	Decide(
		ctx context.Context,
		actor models.Actor,
		requestID int64,
		input models.DecideVacationRequest,
	) (*models.VacationRequest, error)
	Cancel(ctx context.Context, actor models.Actor, requestID int64) (*models.VacationRequest, error)

	GetRequest(ctx context.Context, actor models.Actor, requestID int64) (*models.VacationRequest, error)
	ListVisible(ctx context.Context, actor models.Actor) ([]models.VacationRequest, error)
	ListAll(ctx context.Context) ([]models.VacationRequest, error)
	ListByEmployee(ctx context.Context, actor models.Actor, employeeID int64) ([]models.VacationRequest, error)
	ListByStatus(ctx context.Context, actor models.Actor, status models.VacationStatus) ([]models.VacationRequest, error)
	ListInRange(ctx context.Context, start, end models.Date) ([]models.VacationRequest, error)
	ListOnDate(ctx context.Context, date models.Date) ([]models.VacationRequest, error)
}

var _ VacationService = (*vacationService)(nil)

type vacationService struct {
	employees repository.EmployeeRepository
	requests  repository.VacationRepository
	balance   *BalanceCalculator
	conflicts *ConflictDetector
	locker    lock.Locker
	metrics   *metrics.Metrics
	clock     Clock
	log       *zap.Logger
}

// NewVacationService создает сервис жизненного цикла заявок.
// m может быть nil, тогда метрики не пишутся.
func NewVacationService(
	employees repository.EmployeeRepository,
	requests repository.VacationRepository,
	locker lock.Locker,
	m *metrics.Metrics,
	clock Clock,
	log *zap.Logger,
) VacationService {
	return &vacationService{
		employees: employees,
		requests:  requests,
		balance:   NewBalanceCalculator(requests),
		conflicts: NewConflictDetector(requests),
		locker:    locker,
		metrics:   m,
		clock:     clock,
		log:       log.Named("VacationService"),
	}
}

// Submit создает заявку вызывающего сотрудника в статусе PENDING.
// Проверки выполняются в порядке: даты, баланс, пересечения.
func (s *vacationService) Submit(
	ctx context.Context,
	actor models.Actor,
	input models.SubmitVacationRequest,
) (req *models.VacationRequest, err error) {
	defer s.observe(opSubmit, time.Now(), &err)

	if err = s.validateSubmission(input); err != nil {
		return nil, err
	}

	employee, err := s.loadEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !employee.Active {
		return nil, newError(ErrForbidden, "сотрудник %d неактивен и не может подавать заявки", employee.ID)
	}

	days := models.DaysInRange(input.StartDate, input.EndDate)

	err = s.locker.WithLock(ctx, lock.EmployeeKey(employee.ID), func(ctx context.Context) error {
		enough, checkErr := s.balance.HasEnoughDays(ctx, employee, days)
		if checkErr != nil {
			return checkErr
		}
		if !enough {
			return newError(ErrInsufficientBalance, "запрошено %d дн., доступно меньше", days)
		}

		conflict, checkErr := s.conflicts.Conflicts(ctx, employee.ID, input.StartDate, input.EndDate)
		if checkErr != nil {
			return checkErr
		}
		if conflict {
			return newError(ErrConflict, "период %s - %s пересекается с одобренным отпуском",
				input.StartDate, input.EndDate)
		}

		req = &models.VacationRequest{
			EmployeeID: employee.ID,
			StartDate:  input.StartDate,
			EndDate:    input.EndDate,
			Reason:     input.Reason,
			Status:     models.StatusPending,
		}
		return s.requests.CreateRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Заявка подана",
		zap.Int64("request_id", req.ID), zap.Int64("employee_id", req.EmployeeID), zap.Int("days", days))
	return req, nil
}

func (s *vacationService) validateSubmission(input models.SubmitVacationRequest) error {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return newError(ErrValidation, "даты начала и окончания обязательны")
	}
	if input.StartDate.After(input.EndDate) {
		return newError(ErrValidation, "дата начала %s позже даты окончания %s", input.StartDate, input.EndDate)
	}
	today := models.DateOf(s.clock())
	if input.StartDate.Before(today) {
		return newError(ErrValidation, "дата начала %s в прошлом", input.StartDate)
	}
	if input.Reason != nil && utf8.RuneCountInString(*input.Reason) > MaxTextLength {
		return newError(ErrValidation, "причина длиннее %d символов", MaxTextLength)
	}
	return nil
}

// Decide одобряет или отклоняет заявку. Доступно только администратору.
// Баланс и пересечения при одобрении повторно не проверяются.
func (s *vacationService) Decide(
	ctx context.Context,
	actor models.Actor,
	requestID int64,
	input models.DecideVacationRequest,
) (req *models.VacationRequest, err error) {
	defer s.observe(opDecide, time.Now(), &err)

	if !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "решение по заявке может принять только администратор")
	}
	if input.Status != models.StatusApproved && input.Status != models.StatusRejected {
		return nil, newError(ErrValidation, "статус решения должен быть APPROVED или REJECTED, получено '%s'",
			input.Status)
	}
	if input.AdminComment != nil && utf8.RuneCountInString(*input.AdminComment) > MaxTextLength {
		return nil, newError(ErrValidation, "комментарий длиннее %d символов", MaxTextLength)
	}

	req, err = s.mutatePending(ctx, requestID, func(r *models.VacationRequest) error {
		decidedAt := s.clock().UTC()
		adminID := actor.EmployeeID
		r.Status = input.Status
		r.AdminComment = input.AdminComment
		r.DecidedBy = &adminID
		r.DecidedAt = &decidedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Решение по заявке принято",
		zap.Int64("request_id", req.ID), zap.String("status", string(req.Status)),
		zap.Int64("admin_id", actor.EmployeeID))
	return req, nil
}

// Cancel отзывает заявку на рассмотрении. Доступно только владельцу заявки.
func (s *vacationService) Cancel(
	ctx context.Context,
	actor models.Actor,
	requestID int64,
) (req *models.VacationRequest, err error) {
	defer s.observe(opCancel, time.Now(), &err)

	req, err = s.mutatePending(ctx, requestID, func(r *models.VacationRequest) error {
		if r.EmployeeID != actor.EmployeeID {
			return newError(ErrForbidden, "отменить заявку %d может только ее владелец", r.ID)
		}
		r.Status = models.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Заявка отменена", zap.Int64("request_id", req.ID), zap.Int64("employee_id", req.EmployeeID))
	return req, nil
}

// mutatePending загружает заявку, захватывает блокировку ее сотрудника, перечитывает заявку
// и применяет change. Переход разрешен только из PENDING; проверки change выполняются раньше.
func (s *vacationService) mutatePending(
	ctx context.Context,
	requestID int64,
	change func(r *models.VacationRequest) error,
) (*models.VacationRequest, error) {
	// Сотрудник заявки не меняется, поэтому ключ блокировки можно взять до ее захвата.
	current, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var result *models.VacationRequest
	err = s.locker.WithLock(ctx, lock.EmployeeKey(current.EmployeeID), func(ctx context.Context) error {
		fresh, loadErr := s.loadRequest(ctx, requestID)
		if loadErr != nil {
			return loadErr
		}
		before := fresh.Status
		if changeErr := change(fresh); changeErr != nil {
			return changeErr
		}
		if before != models.StatusPending {
			return newError(ErrInvalidTransition, "заявка %d уже в статусе %s", fresh.ID, before)
		}
		if saveErr := s.requests.SaveRequest(ctx, fresh); saveErr != nil {
			if errors.Is(saveErr, repository.ErrRequestNotFound) {
				return newError(ErrNotFound, "заявка %d не найдена", requestID)
			}
			return fmt.Errorf("ошибка сохранения заявки %d: %w", requestID, saveErr)
		}
		result = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetRequest возвращает заявку. Сотрудник видит только свои заявки.
func (s *vacationService) GetRequest(
	ctx context.Context,
	actor models.Actor,
	requestID int64,
) (*models.VacationRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && req.EmployeeID != actor.EmployeeID {
		return nil, newError(ErrForbidden, "нет доступа к заявке %d", requestID)
	}
	return req, nil
}

// ListVisible возвращает все заявки администратору и собственные заявки сотруднику.
func (s *vacationService) ListVisible(ctx context.Context, actor models.Actor) ([]models.VacationRequest, error) {
	if actor.IsAdmin() {
		return s.ListAll(ctx)
	}
	return s.listEmployee(ctx, actor.EmployeeID)
}

// ListAll возвращает все заявки от новых к старым.
func (s *vacationService) ListAll(ctx context.Context) ([]models.VacationRequest, error) {
	requests, err := s.requests.ListRequests(ctx)
	if err != nil {
		return nil, s.internal("ошибка получения списка заявок", err)
	}
	return requests, nil
}

// ListByEmployee возвращает заявки сотрудника от новых к старым. Доступно администратору и самому сотруднику.
func (s *vacationService) ListByEmployee(
	ctx context.Context,
	actor models.Actor,
	employeeID int64,
) ([]models.VacationRequest, error) {
	if !actor.IsAdmin() && actor.EmployeeID != employeeID {
		return nil, newError(ErrForbidden, "нет доступа к заявкам сотрудника %d", employeeID)
	}
	if _, err := s.loadEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.listEmployee(ctx, employeeID)
}

func (s *vacationService) listEmployee(ctx context.Context, employeeID int64) ([]models.VacationRequest, error) {
	requests, err := s.requests.ListRequestsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, s.internal("ошибка получения заявок сотрудника", err)
	}
	return requests, nil
}

// ListByStatus возвращает заявки в статусе от новых к старым. Доступно только администратору.
func (s *vacationService) ListByStatus(
	ctx context.Context,
	actor models.Actor,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	if !actor.IsAdmin() {
		return nil, newError(ErrForbidden, "список заявок по статусу доступен только администратору")
	}
	if !status.Valid() {
		return nil, newError(ErrValidation, "неизвестный статус '%s'", status)
	}
	requests, err := s.requests.ListRequestsByStatus(ctx, status)
	if err != nil {
		return nil, s.internal("ошибка получения заявок по статусу", err)
	}
	return requests, nil
}

// ListInRange возвращает одобренные заявки всех сотрудников, пересекающие [start, end].
func (s *vacationService) ListInRange(ctx context.Context, start, end models.Date) ([]models.VacationRequest, error) {
	if start.IsZero() || end.IsZero() {
		return nil, newError(ErrValidation, "даты начала и окончания периода обязательны")
	}
	if start.After(end) {
		return nil, newError(ErrValidation, "дата начала периода %s позже даты окончания %s", start, end)
	}
	requests, err := s.requests.ListApprovedInRange(ctx, start, end)
	if err != nil {
		return nil, s.internal("ошибка получения календаря отпусков", err)
	}
	return requests, nil
}

// ListOnDate возвращает одобренные заявки, включающие указанный день.
func (s *vacationService) ListOnDate(ctx context.Context, date models.Date) ([]models.VacationRequest, error) {
	return s.ListInRange(ctx, date, date)
}

func (s *vacationService) loadEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.employees.GetEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, newError(ErrNotFound, "сотрудник %d не найден", id)
		}
		return nil, s.internal("ошибка получения сотрудника", err)
	}
	return employee, nil
}

func (s *vacationService) loadRequest(ctx context.Context, id int64) (*models.VacationRequest, error) {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, newError(ErrNotFound, "заявка %d не найдена", id)
		}
		return nil, s.internal("ошибка получения заявки", err)
	}
	return req, nil
}

func (s *vacationService) internal(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *vacationService) observe(operation string, started time.Time, err *error) {
	outcome := metrics.OutcomeSuccess
	if *err != nil {
		outcome = Kind(*err)
		s.log.Debug("Операция отклонена",
			zap.String("operation", operation), zap.String("kind", outcome), zap.Error(*err))
	}
	s.metrics.ObserveLifecycle(operation, outcome, time.Since(started))
}
