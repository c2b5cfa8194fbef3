package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/maynagashev/vacationkeeper/internal/handlers"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"Валидация", services.ErrValidation, http.StatusBadRequest},
		{"Баланс", fmt.Errorf("%w: мало дней", services.ErrInsufficientBalance), http.StatusUnprocessableEntity},
		{"Пересечение", services.ErrConflict, http.StatusConflict},
		{"Не найдено", services.ErrNotFound, http.StatusNotFound},
		{"Запрещено", services.ErrForbidden, http.StatusForbidden},
		{"Недопустимый переход", services.ErrInvalidTransition, http.StatusConflict},
		{"Хранилище отключено", services.ErrStorageDisabled, http.StatusServiceUnavailable},
		{"Обернутая дважды", fmt.Errorf("handler: %w", fmt.Errorf("%w: x", services.ErrNotFound)), http.StatusNotFound},
		{"Неизвестная", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handlers.StatusForError(tt.err))
		})
	}
}
