package services

import (
	"context"
	"fmt"

	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
)

// HasConflict сообщает, пересекает ли диапазон [start, end] хотя бы одну одобренную заявку.
// Заявки на рассмотрении не блокируют новые.
func HasConflict(requests []models.VacationRequest, start, end models.Date) bool {
	for _, r := range requests {
		if r.Status == models.StatusApproved && r.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// ConflictDetector проверяет пересечения с одобренными отпусками сотрудника.
type ConflictDetector struct {
	requests repository.VacationRepository
}

// NewConflictDetector создает детектор пересечений.
func NewConflictDetector(requests repository.VacationRepository) *ConflictDetector {
	return &ConflictDetector{requests: requests}
}

// Conflicts сообщает, пересекается ли диапазон с одобренными заявками сотрудника.
func (d *ConflictDetector) Conflicts(ctx context.Context, employeeID int64, start, end models.Date) (bool, error) {
	approved, err := d.requests.ListEmployeeRequestsByStatus(ctx, employeeID, models.StatusApproved)
	if err != nil {
		return false, fmt.Errorf("ошибка получения одобренных заявок сотрудника %d: %w", employeeID, err)
	}
	return HasConflict(approved, start, end), nil
}
