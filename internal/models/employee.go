package models

import "time"

// Role - роль пользователя, выданная внешним сервисом идентификации.
type Role string

// Возможные роли.
const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid сообщает, что роль входит в перечисление.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Employee - сотрудник. Запись принадлежит сервису пользователей,
// ядро только читает ее. Использованные и доступные дни здесь не хранятся,
// они каждый раз вычисляются из одобренных заявок.
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
type Employee struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	TotalDays int       `db:"total_vacation_days" json:"total_vacation_days"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullName возвращает имя и фамилию через пробел.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// Actor - аутентифицированный вызывающий, как его описывает сервис идентификации.
type Actor struct {
	EmployeeID int64
	Role       Role
}

// IsAdmin сообщает, что вызывающий - администратор.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
