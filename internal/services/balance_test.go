package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(start, end string, status models.VacationStatus) models.VacationRequest {
	return models.VacationRequest{StartDate: date(start), EndDate: date(end), Status: status}
}

func TestUsedDaysPure(t *testing.T) {
	tests := []struct {
		name     string
		requests []models.VacationRequest
		expected int
	}{
		{name: "Нет заявок", expected: 0},
		{
			name: "Считаются только одобренные",
			requests: []models.VacationRequest{
				request("2024-06-01", "2024-06-05", models.StatusApproved),
				request("2024-07-01", "2024-07-10", models.StatusPending),
				request("2024-08-01", "2024-08-10", models.StatusRejected),
				request("2024-09-01", "2024-09-10", models.StatusCancelled),
				request("2024-10-01", "2024-10-01", models.StatusApproved),
			},
			expected: 6,
		},
		{
			name: "Через границу месяца и високосный день",
			requests: []models.VacationRequest{
				request("2024-02-28", "2024-03-01", models.StatusApproved),
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, services.UsedDays(tt.requests))
			// Повторный вызов дает тот же результат.
			assert.Equal(t, tt.expected, services.UsedDays(tt.requests))
		})
	}
}

func TestBalanceCalculator(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	calc := services.NewBalanceCalculator(store)
	e := store.PutEmployee(models.Employee{FirstName: "Иван", TotalDays: 10, Active: true})

	add := func(start, end string, status models.VacationStatus) {
		r := request(start, end, status)
		r.EmployeeID = e.ID
		require.NoError(t, store.CreateRequest(ctx, &r))
	}
	add("2024-06-01", "2024-06-03", models.StatusApproved)
	add("2024-06-10", "2024-06-19", models.StatusPending)

	used, err := calc.UsedDays(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, used)

	available, err := calc.AvailableDays(ctx, &e)
	require.NoError(t, err)
	assert.Equal(t, 7, available)

	for requested, expected := range map[int]bool{6: true, 7: true, 8: false} {
		t.Run(fmt.Sprintf("Запрошено %d", requested), func(t *testing.T) {
			enough, hasErr := calc.HasEnoughDays(ctx, &e, requested)
			require.NoError(t, hasErr)
			assert.Equal(t, expected, enough)
		})
	}

	t.Run("Уменьшение положенных дней дает отрицательный остаток", func(t *testing.T) {
		reduced := e
		reduced.TotalDays = 2
		got, availErr := calc.AvailableDays(ctx, &reduced)
		require.NoError(t, availErr)
		assert.Equal(t, -1, got)
	})

	t.Run("Изменение статуса сразу отражается в балансе", func(t *testing.T) {
		r := request("2024-09-01", "2024-09-02", models.StatusPending)
		r.EmployeeID = e.ID
		require.NoError(t, store.CreateRequest(ctx, &r))
		r.Status = models.StatusApproved
		require.NoError(t, store.SaveRequest(ctx, &r))

		got, usedErr := calc.UsedDays(ctx, e.ID)
		require.NoError(t, usedErr)
		assert.Equal(t, 5, got)
	})
}

func TestBalanceCalculatorRepositoryError(t *testing.T) {
	repo := new(MockVacationRepository)
	repo.On("ListEmployeeRequestsByStatus", anyCtx, int64(1), models.StatusApproved).
		Return(nil, errors.New("db down"))
	calc := services.NewBalanceCalculator(repo)

	_, err := calc.HasEnoughDays(context.Background(), &models.Employee{ID: 1, TotalDays: 10}, 1)

	require.Error(t, err)
	assert.Equal(t, services.KindInternal, services.Kind(err))
	repo.AssertExpectations(t)
}
