package services

import (
	"errors"
	"fmt"
)

// Виды ошибок, которые сервисы возвращают вызывающему.
// Конкретная ошибка оборачивает вид: fmt.Errorf("%w: сообщение", ErrConflict).
var (
	ErrValidation          = errors.New("ошибка валидации")
	ErrInsufficientBalance = errors.New("недостаточно дней отпуска")
	ErrConflict            = errors.New("пересечение с одобренным отпуском")
	ErrNotFound            = errors.New("не найдено")
	ErrForbidden           = errors.New("доступ запрещен")
	ErrInvalidTransition   = errors.New("недопустимый переход статуса")
	ErrStorageDisabled     = errors.New("хранилище отчетов не настроено")
)

// Имена видов ошибок на границе системы.
const (
	KindValidation          = "VALIDATION_ERROR"
	KindInsufficientBalance = "INSUFFICIENT_BALANCE"
	KindConflict            = "CONFLICT"
	KindNotFound            = "NOT_FOUND"
	KindForbidden           = "FORBIDDEN"
	KindInvalidTransition   = "INVALID_TRANSITION"
	KindStorageDisabled     = "STORAGE_DISABLED"
	KindInternal            = "INTERNAL_ERROR"
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrValidation, KindValidation},
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrConflict, KindConflict},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrStorageDisabled, KindStorageDisabled},
}

// Kind возвращает имя вида ошибки. Для ошибок вне перечисления - KindInternal.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return KindInternal
}

func newError(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
