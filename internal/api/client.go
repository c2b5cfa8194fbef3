// Package api - типизированный HTTP клиент сервиса отпусков.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/maynagashev/vacationkeeper/internal/models"
)

const defaultTimeout = 30 * time.Second

// ErrAuthorization сигнализирует об ошибке авторизации (401).
var ErrAuthorization = errors.New("ошибка авторизации")

// Error - отказ сервера с видом ошибки из тела ответа.
type Error struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *Error) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("ошибка сервера: статус %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Client определяет интерфейс для взаимодействия с API сервиса отпусков.
type Client interface {
	// SubmitVacation подает заявку от имени владельца токена.
	SubmitVacation(ctx context.Context, input models.SubmitVacationRequest) (*models.VacationRequestView, error)
	// ListVacations возвращает видимые вызывающему заявки.
	ListVacations(ctx context.Context) ([]models.VacationRequestView, error)
	// ListVacationsByStatus возвращает заявки со статусом (только администратор).
	ListVacationsByStatus(ctx context.Context, status models.VacationStatus) ([]models.VacationRequestView, error)
	GetVacation(ctx context.Context, id int64) (*models.VacationRequestView, error)
	// DecideVacation одобряет или отклоняет заявку.
	DecideVacation(
		ctx context.Context,
		id int64,
		input models.DecideVacationRequest,
	) (*models.VacationRequestView, error)
	CancelVacation(ctx context.Context, id int64) (*models.VacationRequestView, error)
	// Calendar возвращает одобренные отпуска, пересекающие период.
	Calendar(ctx context.Context, start, end models.Date) ([]models.VacationRequestView, error)
	// Me возвращает профиль владельца токена с балансом.
	Me(ctx context.Context) (*models.EmployeeView, error)
	// SetAuthToken устанавливает JWT токен для аутентифицированных запросов.
	SetAuthToken(token string)
}

// httpClient реализует интерфейс Client по HTTP.
type httpClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

func (c *httpClient) SubmitVacation(
	ctx context.Context,
	input models.SubmitVacationRequest,
) (*models.VacationRequestView, error) {
	var view models.VacationRequestView
	if err := c.do(ctx, http.MethodPost, "/api/vacations", nil, input, http.StatusCreated, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *httpClient) ListVacations(ctx context.Context) ([]models.VacationRequestView, error) {
	var views []models.VacationRequestView
	if err := c.do(ctx, http.MethodGet, "/api/vacations", nil, nil, http.StatusOK, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *httpClient) ListVacationsByStatus(
	ctx context.Context,
	status models.VacationStatus,
) ([]models.VacationRequestView, error) {
	var views []models.VacationRequestView
	path := "/api/vacations/status/" + url.PathEscape(string(status))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, http.StatusOK, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *httpClient) GetVacation(ctx context.Context, id int64) (*models.VacationRequestView, error) {
	var view models.VacationRequestView
	if err := c.do(ctx, http.MethodGet, vacationPath(id), nil, nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *httpClient) DecideVacation(
	ctx context.Context,
	id int64,
	input models.DecideVacationRequest,
) (*models.VacationRequestView, error) {
	var view models.VacationRequestView
	if err := c.do(ctx, http.MethodPut, vacationPath(id)+"/status", nil, input, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *httpClient) CancelVacation(ctx context.Context, id int64) (*models.VacationRequestView, error) {
	var view models.VacationRequestView
	if err := c.do(ctx, http.MethodDelete, vacationPath(id), nil, nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *httpClient) Calendar(ctx context.Context, start, end models.Date) ([]models.VacationRequestView, error) {
	query := url.Values{}
	query.Set("start_date", start.String())
	query.Set("end_date", end.String())

	var views []models.VacationRequestView
	if err := c.do(ctx, http.MethodGet, "/api/vacations/calendar", query, nil, http.StatusOK, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *httpClient) Me(ctx context.Context) (*models.EmployeeView, error) {
	var view models.EmployeeView
	if err := c.do(ctx, http.MethodGet, "/api/employees/me", nil, nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func vacationPath(id int64) string {
	return "/api/vacations/" + strconv.FormatInt(id, 10)
}

// do выполняет запрос и декодирует ответ в out, если статус равен expected.
func (c *httpClient) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	expected int,
	out any,
) error {
	if c.authToken == "" {
		return errors.New("токен аутентификации отсутствует")
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL %s: %w", path, err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("ошибка кодирования тела запроса: %w", marshalErr)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthorization
	}
	if resp.StatusCode != expected {
		return decodeError(resp)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Kind = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}
