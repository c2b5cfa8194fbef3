// Package handlers содержит HTTP обработчики API отпусков.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/maynagashev/vacationkeeper/internal/middleware"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// statusByKind сопоставляет вид ошибки сервиса и HTTP статус.
var statusByKind = map[string]int{
	services.KindValidation:          http.StatusBadRequest,
	services.KindInsufficientBalance: http.StatusUnprocessableEntity,
	services.KindConflict:            http.StatusConflict,
	services.KindNotFound:            http.StatusNotFound,
	services.KindForbidden:           http.StatusForbidden,
	services.KindInvalidTransition:   http.StatusConflict,
	services.KindStorageDisabled:     http.StatusServiceUnavailable,
}

// StatusForError возвращает HTTP статус для ошибки сервиса.
func StatusForError(err error) int {
	if status, ok := statusByKind[services.Kind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("Ошибка кодирования ответа", zap.Error(err))
	}
}

// writeError отвечает видом ошибки и сообщением. Внутренние ошибки не раскрываются.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := services.Kind(err)
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Внутренняя ошибка при обработке запроса", zap.Error(err))
		message = "Внутренняя ошибка сервера"
	}
	writeJSON(w, log, status, models.ErrorResponse{Error: kind, Message: message})
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrValidation, fmt.Sprintf(format, args...))
}

// actorFrom извлекает вызывающего. Отсутствие вызывающего означает ошибку сборки маршрутов.
func actorFrom(w http.ResponseWriter, r *http.Request, log *zap.Logger) (models.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		log.Error("Не удалось получить вызывающего из контекста")
		writeError(w, log, errors.New("вызывающий не найден в контексте"))
	}
	return actor, ok
}

// decodeBody читает JSON тело и проверяет его тэгами validate.
func decodeBody(r *http.Request, validate *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validationError("некорректное тело запроса: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return validationError("неверные поля: %s", strings.Join(fields, ", "))
		}
		return validationError("%v", err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validationError("неверный идентификатор '%s'", raw)
	}
	return id, nil
}

func dateParam(raw, name string) (models.Date, error) {
	if raw == "" {
		return models.Date{}, validationError("параметр %s обязателен", name)
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, validationError("параметр %s: %v", name, err)
	}
	return d, nil
}

func dateRangeQuery(r *http.Request) (models.Date, models.Date, error) {
	start, err := dateParam(r.URL.Query().Get("start_date"), "start_date")
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	end, err := dateParam(r.URL.Query().Get("end_date"), "end_date")
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	return start, end, nil
}
