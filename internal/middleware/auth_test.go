package middleware_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maynagashev/vacationkeeper/internal/middleware"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jwtSecretKey = "test-secret-key"

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		expectedID int64
		expectedOK bool
	}{
		{
			name:       "Контекст с UserID",
			ctx:        context.WithValue(context.Background(), middleware.UserIDKey, int64(123)),
			expectedID: 123,
			expectedOK: true,
		},
		{
			name:       "Пустой контекст",
			ctx:        context.Background(),
			expectedID: 0,
			expectedOK: false,
		},
		{
			name:       "Контекст с UserID неверного типа",
			ctx:        context.WithValue(context.Background(), middleware.UserIDKey, "not-an-int64"),
			expectedID: 0,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, ok := middleware.GetUserIDFromContext(tt.ctx)
			assert.Equal(t, tt.expectedID, userID)
			assert.Equal(t, tt.expectedOK, ok)
		})
	}
}

func TestWithActor(t *testing.T) {
	actor := models.Actor{EmployeeID: 7, Role: models.RoleAdmin}
	ctx := middleware.WithActor(context.Background(), actor)

	got, ok := middleware.GetActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, actor, got)

	userID, ok := middleware.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), userID)

	_, ok = middleware.GetActorFromContext(context.Background())
	assert.False(t, ok)
}

// Вспомогательная функция для генерации JWT токена.
func generateTestToken(t *testing.T, claims middleware.Claims, secretKey string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secretKey))
	require.NoError(t, err, "Ошибка генерации тестового токена")
	return signed
}

func claimsFor(userID int64, role models.Role, expiresAt time.Time) middleware.Claims {
	return middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "test-issuer",
		},
	}
}

func TestAuthenticator(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActorFromContext(r.Context())
		assert.True(t, ok, "Вызывающий должен быть в контексте")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK for %s %d", actor.Role, actor.EmployeeID)
	})

	server := httptest.NewServer(middleware.Authenticator(jwtSecretKey, zap.NewNop())(nextHandler))
	defer server.Close()

	hour := time.Now().Add(time.Hour)
	valid := generateTestToken(t, claimsFor(123, models.RoleEmployee, hour), jwtSecretKey, jwt.SigningMethodHS256)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Успешная аутентификация сотрудника",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectedBody:   "OK for EMPLOYEE 123",
		},
		{
			name: "Успешная аутентификация администратора",
			header: "bearer " + generateTestToken(t, claimsFor(1, models.RoleAdmin, hour),
				jwtSecretKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusOK,
			expectedBody:   "OK for ADMIN 1",
		},
		{
			name:           "Нет заголовка Authorization",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Требуется аутентификация",
		},
		{
			name:           "Неверный формат заголовка (нет Bearer)",
			header:         valid,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Неверный формат токена",
		},
		{
			name:           "Неверный формат заголовка (лишнее слово)",
			header:         "Bearer extra " + valid,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Неверный формат токена",
		},
		{
			name:           "Пустой токен",
			header:         "Bearer ",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Неверный формат токена",
		},
		{
			name: "Неверный секрет",
			header: "Bearer " + generateTestToken(t, claimsFor(111, models.RoleEmployee, hour),
				"wrong-secret-key", jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Невалидный токен",
		},
		{
			name: "Другой алгоритм подписи",
			header: "Bearer " + generateTestToken(t, claimsFor(111, models.RoleEmployee, hour),
				jwtSecretKey, jwt.SigningMethodHS512),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Невалидный токен",
		},
		{
			name: "Истекший токен",
			header: "Bearer " + generateTestToken(t, claimsFor(222, models.RoleEmployee, time.Now().Add(-time.Hour)),
				jwtSecretKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Невалидный токен",
		},
		{
			name: "Неизвестная роль",
			header: "Bearer " + generateTestToken(t, claimsFor(5, models.Role("GUEST"), hour),
				jwtSecretKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Невалидный токен",
		},
		{
			name: "Нет пользователя",
			header: "Bearer " + generateTestToken(t, claimsFor(0, models.RoleEmployee, hour),
				jwtSecretKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Невалидный токен",
		},
		{
			name:           "Мусор вместо токена",
			header:         "Bearer garbage",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Невалидный токен",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			bodyBytes, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(bodyBytes), tt.expectedBody)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, string(bodyBytes), `"error":"UNAUTHORIZED"`)
			}
		})
	}
}
