package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"go.uber.org/zap"
)

// VacationHandler обрабатывает HTTP-запросы, связанные с заявками на отпуск.
type VacationHandler struct {
	vacations services.VacationService
	presenter services.Presenter
	validate  *validator.Validate
	log       *zap.Logger
}

// NewVacationHandler создает новый экземпляр VacationHandler.
func NewVacationHandler(
	vacations services.VacationService,
	presenter services.Presenter,
	validate *validator.Validate,
	log *zap.Logger,
) *VacationHandler {
	return &VacationHandler{
		vacations: vacations,
		presenter: presenter,
		validate:  validate,
		log:       log.Named("VacationHandler"),
	}
}

// Routes возвращает маршруты /api/vacations.
func (h *VacationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Submit)
	r.Get("/status/{status}", h.ListByStatus)
	r.Get("/calendar", h.Calendar)
	r.Get("/calendar/{date}", h.CalendarOnDate)
	r.Get("/employee/{id}", h.ListByEmployee)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/status", h.Decide)
	r.Delete("/{id}", h.Cancel)
	return r
}

// List обрабатывает GET /api/vacations: все заявки для администратора, свои для сотрудника.
func (h *VacationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	requests, err := h.vacations.ListVisible(r.Context(), actor)
	h.respondList(w, r, requests, err)
}

// Submit обрабатывает POST /api/vacations.
func (h *VacationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}

	var input models.SubmitVacationRequest
	if err := decodeBody(r, h.validate, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	req, err := h.vacations.Submit(r.Context(), actor, input)
	h.respondOne(w, r, http.StatusCreated, req, err)
}

// ListByStatus обрабатывает GET /api/vacations/status/{status}.
func (h *VacationHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	status := models.VacationStatus(chi.URLParam(r, "status"))
	requests, err := h.vacations.ListByStatus(r.Context(), actor, status)
	h.respondList(w, r, requests, err)
}

// Calendar обрабатывает GET /api/vacations/calendar?start_date=&end_date=.
func (h *VacationHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRangeQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	requests, err := h.vacations.ListInRange(r.Context(), start, end)
	h.respondList(w, r, requests, err)
}

// CalendarOnDate обрабатывает GET /api/vacations/calendar/{date}.
func (h *VacationHandler) CalendarOnDate(w http.ResponseWriter, r *http.Request) {
	day, err := dateParam(chi.URLParam(r, "date"), "date")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	requests, err := h.vacations.ListOnDate(r.Context(), day)
	h.respondList(w, r, requests, err)
}

// ListByEmployee обрабатывает GET /api/vacations/employee/{id}.
func (h *VacationHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	employeeID, err := idParam(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	requests, err := h.vacations.ListByEmployee(r.Context(), actor, employeeID)
	h.respondList(w, r, requests, err)
}

// Get обрабатывает GET /api/vacations/{id}.
func (h *VacationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	req, err := h.vacations.GetRequest(r.Context(), actor, id)
	h.respondOne(w, r, http.StatusOK, req, err)
}

// Decide обрабатывает PUT /api/vacations/{id}/status.
func (h *VacationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	var input models.DecideVacationRequest
	if err = decodeBody(r, h.validate, &input); err != nil {
		writeError(w, h.log, err)
		return
	}

	req, err := h.vacations.Decide(r.Context(), actor, id, input)
	h.respondOne(w, r, http.StatusOK, req, err)
}

// Cancel обрабатывает DELETE /api/vacations/{id}. Заявка не удаляется, а переходит в CANCELLED.
func (h *VacationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.log)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	req, err := h.vacations.Cancel(r.Context(), actor, id)
	h.respondOne(w, r, http.StatusOK, req, err)
}

func (h *VacationHandler) respondOne(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	req *models.VacationRequest,
	err error,
) {
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	view, err := h.presenter.RequestView(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, status, view)
}

func (h *VacationHandler) respondList(
	w http.ResponseWriter,
	r *http.Request,
	requests []models.VacationRequest,
	err error,
) {
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	views, err := h.presenter.RequestViews(r.Context(), requests)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, views)
}
