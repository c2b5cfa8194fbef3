package services

import (
	"context"
	"fmt"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
)

// Presenter превращает записи ядра в представления для внешних вызывающих.
type Presenter interface {
	RequestView(ctx context.Context, req *models.VacationRequest) (*models.VacationRequestView, error)
	RequestViews(ctx context.Context, requests []models.VacationRequest) ([]models.VacationRequestView, error)
	EmployeeView(ctx context.Context, employee *models.Employee) (*models.EmployeeView, error)
	EmployeeViews(ctx context.Context, employees []models.Employee) ([]models.EmployeeView, error)
}

var _ Presenter = (*presenter)(nil)

type presenter struct {
	employees repository.EmployeeRepository
	requests  repository.VacationRepository
	balance   *BalanceCalculator
}

// NewPresenter создает маппер представлений.
func NewPresenter(employees repository.EmployeeRepository, requests repository.VacationRepository) Presenter {
	return &presenter{
		employees: employees,
		requests:  requests,
		balance:   NewBalanceCalculator(requests),
	}
}

// RequestView строит представление одной заявки.
func (p *presenter) RequestView(ctx context.Context, req *models.VacationRequest) (*models.VacationRequestView, error) {
	views, err := p.RequestViews(ctx, []models.VacationRequest{*req})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// RequestViews строит представления заявок. Имена сотрудников и администраторов
// загружаются одним запросом на весь список.
func (p *presenter) RequestViews(
	ctx context.Context,
	requests []models.VacationRequest,
) ([]models.VacationRequestView, error) {
	people, err := p.employees.GetEmployeesByIDs(ctx, repository.EmployeeIDs(requests))
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудников для заявок: %w", err)
	}
	byID := make(map[int64]models.Employee, len(people))
	for _, e := range people {
		byID[e.ID] = e
	}

	views := make([]models.VacationRequestView, 0, len(requests))
	for _, r := range requests {
		owner := byID[r.EmployeeID]
		view := models.VacationRequestView{
			ID:            r.ID,
			EmployeeID:    r.EmployeeID,
			EmployeeName:  owner.FullName(),
			EmployeeEmail: owner.Email,
			StartDate:     r.StartDate,
			EndDate:       r.EndDate,
			Reason:        r.Reason,
			Status:        r.Status,
			AdminComment:  r.AdminComment,
			DecidedByID:   r.DecidedBy,
			DecidedAt:     r.DecidedAt,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
			DaysCount:     r.DaysCount(),
		}
		if r.DecidedBy != nil {
			view.DecidedByName = byID[*r.DecidedBy].FullName()
		}
		views = append(views, view)
	}
	return views, nil
}

// EmployeeView строит представление сотрудника с балансом, вычисленным заново.
func (p *presenter) EmployeeView(ctx context.Context, employee *models.Employee) (*models.EmployeeView, error) {
	used, err := p.balance.UsedDays(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	view := employeeView(*employee, used)
	return &view, nil
}

// EmployeeViews строит представления списка сотрудников по одной выборке одобренных заявок.
func (p *presenter) EmployeeViews(ctx context.Context, employees []models.Employee) ([]models.EmployeeView, error) {
	approved, err := p.requests.ListRequestsByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения одобренных заявок: %w", err)
	}
	byEmployee := make(map[int64][]models.VacationRequest)
	for _, r := range approved {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	views := make([]models.EmployeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, employeeView(e, UsedDays(byEmployee[e.ID])))
	}
	return views, nil
}

func employeeView(e models.Employee, used int) models.EmployeeView {
	return models.EmployeeView{
		ID:            e.ID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Role:          e.Role,
		TotalDays:     e.TotalDays,
		UsedDays:      used,
		AvailableDays: e.TotalDays - used,
		Active:        e.Active,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
