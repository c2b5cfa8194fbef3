// Package middleware содержит HTTP middleware сервиса.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"go.uber.org/zap"
)

// Тип для ключа контекста.
type contextKey string

// Ключи для хранения данных вызывающего в контексте.
const (
	UserIDKey contextKey = "userID"
	ActorKey  contextKey = "actor"
)

// Claims - данные JWT, выпущенного сервисом идентификации.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator проверяет JWT (HS256) и кладет вызывающего в контекст запроса.
// Токены выпускает внешний сервис идентификации с тем же секретом.
func Authenticator(secret string, log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("AuthMiddleware")
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("Заголовок Authorization отсутствует")
				unauthorized(w, "Требуется аутентификация")
				return
			}

			// Проверяем формат "Bearer token"
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") || headerParts[1] == "" {
				log.Debug("Неверный формат заголовка Authorization")
				unauthorized(w, "Неверный формат токена")
				return
			}

			claims := &Claims{}
			token, err := parser.ParseWithClaims(headerParts[1], claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				log.Debug("Ошибка парсинга/валидации токена", zap.Error(err))
				unauthorized(w, "Невалидный токен")
				return
			}
			if claims.UserID <= 0 || !claims.Role.Valid() {
				log.Debug("В токене нет пользователя или роли",
					zap.Int64("user_id", claims.UserID), zap.String("role", string(claims.Role)))
				unauthorized(w, "Невалидный токен")
				return
			}

			actor := models.Actor{EmployeeID: claims.UserID, Role: claims.Role}
			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, ActorKey, actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "UNAUTHORIZED", Message: message})
}

// GetUserIDFromContext извлекает UserID из контекста запроса.
// Возвращает ID пользователя и true, если ID найден, иначе 0 и false.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetActorFromContext извлекает аутентифицированного вызывающего.
func GetActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(models.Actor)
	return actor, ok
}

// WithActor возвращает контекст с вызывающим. Используется в тестах обработчиков.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, actor.EmployeeID)
	return context.WithValue(ctx, ActorKey, actor)
}
