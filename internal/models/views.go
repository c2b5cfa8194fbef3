package models

import "time"

// VacationRequestView - заявка в виде для внешних вызывающих.
type VacationRequestView struct {
	ID            int64          `json:"id"`
	EmployeeID    int64          `json:"employee_id"`
	EmployeeName  string         `json:"employee_full_name"`
	EmployeeEmail string         `json:"employee_email"`
	StartDate     Date           `json:"start_date"`
	EndDate       Date           `json:"end_date"`
	Reason        *string        `json:"reason,omitempty"`
	Status        VacationStatus `json:"status"`
	AdminComment  *string        `json:"admin_comment,omitempty"`
	DecidedByID   *int64         `json:"decided_by_id,omitempty"`
	DecidedByName string         `json:"decided_by_name,omitempty"`
	DecidedAt     *time.Time     `json:"decided_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DaysCount     int            `json:"days_count"`
}

// EmployeeView - сотрудник с вычисленным балансом.
type EmployeeView struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	TotalDays     int       `json:"total_vacation_days"`
	UsedDays      int       `json:"used_vacation_days"`
	AvailableDays int       `json:"available_vacation_days"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubmitVacationRequest представляет тело запроса на подачу заявки.
type SubmitVacationRequest struct {
	StartDate Date    `json:"start_date"`
	EndDate   Date    `json:"end_date"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// DecideVacationRequest представляет тело запроса на одобрение или отклонение.
type DecideVacationRequest struct {
	Status       VacationStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	AdminComment *string        `json:"admin_comment,omitempty" validate:"omitempty,max=500"`
}

// ErrorResponse - тело ответа с ошибкой: вид ошибки и сообщение.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ReportInfo описывает отчет, сохраненный в объектном хранилище.
type ReportInfo struct {
	ObjectKey string `json:"object_key"`
	SizeBytes int64  `json:"size_bytes"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
	Rows      int    `json:"rows"`
}
