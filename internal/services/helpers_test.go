package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/maynagashev/vacationkeeper/internal/lock"
	"github.com/maynagashev/vacationkeeper/internal/metrics"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Текущий момент во всех сценариях: 20 мая 2024.
var fixedNow = time.Date(2024, time.May, 20, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func date(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

type fixture struct {
	store     *repository.MemoryStore
	metrics   *metrics.Metrics
	vacations services.VacationService
	presenter services.Presenter
	admin     models.Employee
	employee  models.Employee
}

func (f *fixture) adminActor() models.Actor {
	return models.Actor{EmployeeID: f.admin.ID, Role: models.RoleAdmin}
}

func (f *fixture) employeeActor() models.Actor {
	return models.Actor{EmployeeID: f.employee.ID, Role: models.RoleEmployee}
}

func actorOf(e models.Employee) models.Actor {
	return models.Actor{EmployeeID: e.ID, Role: e.Role}
}

// newFixture собирает сервис на хранилище в памяти с администратором
// и сотрудником, у которого 26 положенных дней.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	m := metrics.New()

	f := &fixture{
		store:     store,
		metrics:   m,
		vacations: services.NewVacationService(store, store, lock.NewLocalLocker(), m, fixedClock, zap.NewNop()),
		presenter: services.NewPresenter(store, store),
	}
	f.admin = store.PutEmployee(models.Employee{
		FirstName: "Анна", LastName: "Админова", Email: "admin@company.com",
		Role: models.RoleAdmin, TotalDays: 30, Active: true,
	})
	f.employee = store.PutEmployee(models.Employee{
		FirstName: "Иван", LastName: "Петров", Email: "ivan@company.com",
		Role: models.RoleEmployee, TotalDays: 26, Active: true,
	})
	return f
}

func (f *fixture) submit(t *testing.T, actor models.Actor, start, end string) *models.VacationRequest {
	t.Helper()
	req, err := f.vacations.Submit(context.Background(), actor, models.SubmitVacationRequest{
		StartDate: date(start), EndDate: date(end),
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) approve(t *testing.T, requestID int64) *models.VacationRequest {
	t.Helper()
	req, err := f.vacations.Decide(context.Background(), f.adminActor(), requestID,
		models.DecideVacationRequest{Status: models.StatusApproved})
	require.NoError(t, err)
	return req
}

func (f *fixture) balance(t *testing.T, e models.Employee) *models.EmployeeView {
	t.Helper()
	view, err := f.presenter.EmployeeView(context.Background(), &e)
	require.NoError(t, err)
	return view
}
