package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/maynagashev/vacationkeeper/internal/models"
)

// MemoryStore - хранилище сотрудников и заявок в памяти процесса.
// Используется для локального запуска без PostgreSQL и в тестах.
// Возвращает копии записей, так что вызывающий не может изменить состояние в обход SaveRequest.
type MemoryStore struct {
	mu        sync.RWMutex
	employees map[int64]models.Employee
	requests  map[int64]models.VacationRequest
	nextID    int64
	now       func() time.Time
}

var (
	_ EmployeeRepository = (*MemoryStore)(nil)
	_ VacationRepository = (*MemoryStore)(nil)
)

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees: make(map[int64]models.Employee),
		requests:  make(map[int64]models.VacationRequest),
		now:       time.Now,
	}
}

// PutEmployee добавляет или заменяет сотрудника. Нулевой ID заменяется следующим свободным.
func (s *MemoryStore) PutEmployee(e models.Employee) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
	} else if e.ID > s.nextID {
		s.nextID = e.ID
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	s.employees[e.ID] = e
	return e
}

// GetEmployeeByID находит сотрудника по ID.
func (s *MemoryStore) GetEmployeeByID(_ context.Context, id int64) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return &e, nil
}

// GetEmployeesByIDs возвращает найденных сотрудников в порядке возрастания ID.
func (s *MemoryStore) GetEmployeesByIDs(_ context.Context, ids []int64) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Employee, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if e, ok := s.employees[id]; ok {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListEmployees возвращает сотрудников, отсортированных по фамилии и имени.
func (s *MemoryStore) ListEmployees(_ context.Context, activeOnly bool) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if activeOnly && !e.Active {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return result, nil
}

// CreateRequest сохраняет новую заявку и заполняет ID и временные метки.
func (s *MemoryStore) CreateRequest(_ context.Context, req *models.VacationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.nextID++
	req.ID = s.nextID
	req.CreatedAt = now
	req.UpdatedAt = now
	s.requests[req.ID] = cloneRequest(*req)
	return nil
}

// SaveRequest сохраняет статус и данные решения существующей заявки.
func (s *MemoryStore) SaveRequest(_ context.Context, req *models.VacationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[req.ID]
	if !ok {
		return ErrRequestNotFound
	}
	stored.Status = req.Status
	stored.AdminComment = req.AdminComment
	stored.DecidedBy = req.DecidedBy
	stored.DecidedAt = req.DecidedAt
	stored.UpdatedAt = s.now().UTC()
	s.requests[req.ID] = cloneRequest(stored)

	req.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetRequestByID находит заявку по ID.
func (s *MemoryStore) GetRequestByID(_ context.Context, id int64) (*models.VacationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	req = cloneRequest(req)
	return &req, nil
}

// ListRequests возвращает все заявки.
func (s *MemoryStore) ListRequests(_ context.Context) ([]models.VacationRequest, error) {
	return s.filterNewestFirst(func(models.VacationRequest) bool { return true }), nil
}

// ListRequestsByEmployee возвращает заявки сотрудника.
func (s *MemoryStore) ListRequestsByEmployee(_ context.Context, employeeID int64) ([]models.VacationRequest, error) {
	return s.filterNewestFirst(func(r models.VacationRequest) bool {
		return r.EmployeeID == employeeID
	}), nil
}

// ListRequestsByStatus возвращает заявки в указанном статусе.
func (s *MemoryStore) ListRequestsByStatus(
	_ context.Context,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	return s.filterNewestFirst(func(r models.VacationRequest) bool {
		return r.Status == status
	}), nil
}

// ListEmployeeRequestsByStatus возвращает заявки сотрудника в указанном статусе.
func (s *MemoryStore) ListEmployeeRequestsByStatus(
	_ context.Context,
	employeeID int64,
	status models.VacationStatus,
) ([]models.VacationRequest, error) {
	return s.filterNewestFirst(func(r models.VacationRequest) bool {
		return r.EmployeeID == employeeID && r.Status == status
	}), nil
}

// ListApprovedInRange возвращает одобренные заявки, пересекающие [start, end], по дате начала.
func (s *MemoryStore) ListApprovedInRange(
	_ context.Context,
	start, end models.Date,
) ([]models.VacationRequest, error) {
	result := s.filterNewestFirst(func(r models.VacationRequest) bool {
		return r.Status == models.StatusApproved && r.Overlaps(start, end)
	})
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) filterNewestFirst(keep func(models.VacationRequest) bool) []models.VacationRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.VacationRequest, 0)
	for _, r := range s.requests {
		if keep(r) {
			result = append(result, cloneRequest(r))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func cloneRequest(r models.VacationRequest) models.VacationRequest {
	if r.Reason != nil {
		v := *r.Reason
		r.Reason = &v
	}
	if r.AdminComment != nil {
		v := *r.AdminComment
		r.AdminComment = &v
	}
	if r.DecidedBy != nil {
		v := *r.DecidedBy
		r.DecidedBy = &v
	}
	if r.DecidedAt != nil {
		v := *r.DecidedAt
		r.DecidedAt = &v
	}
	return r
}

// EmployeeIDs возвращает отсортированный список ID без повторов.
func EmployeeIDs(requests []models.VacationRequest) []int64 {
	ids := make([]int64, 0, len(requests)*2)
	for _, r := range requests {
		ids = append(ids, r.EmployeeID)
		if r.DecidedBy != nil {
			ids = append(ids, *r.DecidedBy)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
