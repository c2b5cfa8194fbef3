package services

import (
	"context"
	"fmt"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
)

// UsedDays суммирует длительность одобренных заявок. Заявки в других статусах пропускаются.
func UsedDays(requests []models.VacationRequest) int {
	used := 0
	for _, r := range requests {
		if r.Status == models.StatusApproved {
			used += r.DaysCount()
		}
	}
	return used
}

// BalanceCalculator вычисляет использованные и доступные дни из одобренных заявок.
// Ничего не кэширует: каждый вызов читает актуальное состояние.
type BalanceCalculator struct {
	requests repository.VacationRepository
}

// NewBalanceCalculator создает калькулятор баланса.
func NewBalanceCalculator(requests repository.VacationRepository) *BalanceCalculator {
	return &BalanceCalculator{requests: requests}
}

// UsedDays возвращает сумму дней одобренных заявок сотрудника.
func (b *BalanceCalculator) UsedDays(ctx context.Context, employeeID int64) (int, error) {
	approved, err := b.requests.ListEmployeeRequestsByStatus(ctx, employeeID, models.StatusApproved)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения одобренных заявок сотрудника %d: %w", employeeID, err)
	}
	return UsedDays(approved), nil
}

// AvailableDays возвращает total - used. Отрицательное значение допустимо,
// если администратор уменьшил положенные дни ниже уже одобренных.
func (b *BalanceCalculator) AvailableDays(ctx context.Context, employee *models.Employee) (int, error) {
	used, err := b.UsedDays(ctx, employee.ID)
	if err != nil {
		return 0, err
	}
	return employee.TotalDays - used, nil
}

// HasEnoughDays сообщает, хватает ли доступных дней. Ровно исчерпать баланс можно.
func (b *BalanceCalculator) HasEnoughDays(ctx context.Context, employee *models.Employee, requested int) (bool, error) {
	available, err := b.AvailableDays(ctx, employee)
	if err != nil {
		return false, err
	}
	return available >= requested, nil
}
