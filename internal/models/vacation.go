package models

import "time"

// VacationStatus - состояние заявки на отпуск.
type VacationStatus string

// Состояния жизненного цикла. PENDING - единственное начальное,
// остальные три - конечные.
const (
	StatusPending   VacationStatus = "PENDING"
	StatusApproved  VacationStatus = "APPROVED"
	StatusRejected  VacationStatus = "REJECTED"
	StatusCancelled VacationStatus = "CANCELLED"
)

// AllStatuses перечисляет состояния в порядке жизненного цикла.
func AllStatuses() []VacationStatus {
	return []VacationStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled}
}

// Valid сообщает, что значение входит в перечисление.
func (s VacationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal сообщает, что из состояния нет переходов.
func (s VacationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// VacationRequest - заявка на отпуск. Даты включительные и не меняются после создания.
// Ссылки на сотрудника и решившего администратора хранятся как идентификаторы.
type VacationRequest struct {
	ID           int64          `db:"id" json:"id"`
	EmployeeID   int64          `db:"employee_id" json:"employee_id"`
	StartDate    Date           `db:"start_date" json:"start_date"`
	EndDate      Date           `db:"end_date" json:"end_date"`
	Reason       *string        `db:"reason" json:"reason,omitempty"`
	Status       VacationStatus `db:"status" json:"status"`
	AdminComment *string        `db:"admin_comment" json:"admin_comment,omitempty"`
	DecidedBy    *int64         `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt    *time.Time     `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// DaysCount возвращает длину включительного диапазона в днях (не меньше 1 для корректной заявки).
func (r VacationRequest) DaysCount() int {
	return DaysInRange(r.StartDate, r.EndDate)
}

// Overlaps сообщает, пересекается ли заявка с включительным диапазоном [start, end].
func (r VacationRequest) Overlaps(start, end Date) bool {
	return RangesOverlap(r.StartDate, r.EndDate, start, end)
}

// DaysInRange возвращает число дней во включительном диапазоне [start, end].
func DaysInRange(start, end Date) int {
	return start.DaysUntil(end) + 1
}

// RangesOverlap проверяет пересечение включительных диапазонов: s1 <= e2 && s2 <= e1.
func RangesOverlap(s1, e1, s2, e2 Date) bool {
	return !s1.After(e2) && !s2.After(e1)
}
