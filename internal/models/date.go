package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout - формат календарной даты на границе системы (ISO 8601).
const DateLayout = "2006-01-02"

const hoursPerDay = 24

// Date представляет календарный день без времени и часового пояса.
// Внутри хранится как полночь UTC, поэтому разница двух дат всегда кратна суткам.
// Нулевое значение означает "дата не указана".
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf возвращает календарный день момента t в его собственном часовом поясе.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("неверный формат даты '%s', ожидается YYYY-MM-DD: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero сообщает, что дата не указана.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Before сообщает, что d раньше other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After сообщает, что d позже other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal сообщает, что это один и тот же день.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil возвращает число целых суток от d до other (отрицательное, если other раньше).
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / hoursPerDay)
}

// AddDays сдвигает дату на n суток.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Time возвращает полночь UTC этого дня.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON кодирует дату строкой YYYY-MM-DD, пустая дата кодируется как null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON принимает строку YYYY-MM-DD или null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("дата должна быть строкой: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner для колонок типа DATE.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("невозможно преобразовать %T в Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// Драйвер может вернуть дату вместе со временем.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
