package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"go.uber.org/zap"
)

// EmployeeHandler обрабатывает HTTP-запросы чтения сотрудников.
type EmployeeHandler struct {
	employees services.EmployeeService
	log       *zap.Logger
}

// NewEmployeeHandler создает новый экземпляр EmployeeHandler.
func NewEmployeeHandler(employees services.EmployeeService, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, log: log.Named("EmployeeHandler")}
}

// Routes возвращает маршруты /api/employees.
func (h *EmployeeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/me", h.Me)
	r.Get("/{id}", h.Get)
	return r
}

// List обрабатывает GET /api/employees?active=true.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}

	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, h.log, validationError("параметр active должен быть true или false"))
			return
		}
		activeOnly = parsed
	}

	views, err := h.employees.ListEmployees(r.Context(), actor, activeOnly)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, views)
}

// Me обрабатывает GET /api/employees/me.
func (h *EmployeeHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	view, err := h.employees.Me(r.Context(), actor)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, view)
}

// Get обрабатывает GET /api/employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	view, err := h.employees.GetEmployee(r.Context(), actor, id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, view)
}
