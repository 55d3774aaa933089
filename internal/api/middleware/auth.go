package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	isAdminKey contextKey = "isAdmin"

	// HeaderUserID заголовок идентификации пользователя.
	// Выставляется API-гейтвеем после аутентификации
	HeaderUserID = "X-User-ID"
)

// Auth проверяет наличие X-User-ID и кладёт его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный ID пользователя")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminJWT требует валидный Bearer JWT с ролью admin.
// Используется на административных маршрутах
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseAdminToken(r, secret)
			if err != nil {
				handlers.RespondUnauthorized(w, "требуется токен администратора")
				return
			}

			ctx := context.WithValue(r.Context(), isAdminKey, true)
			if sub, ok := subjectID(claims); ok {
				ctx = context.WithValue(ctx, userIDKey, sub)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAdmin помечает запрос административным, если предъявлен валидный
// admin-токен. Отсутствие или невалидность токена запрос не блокирует:
// маршрут остаётся доступным обычному пользователю
func OptionalAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := parseAdminToken(r, secret); err == nil {
				ctx := context.WithValue(r.Context(), isAdminKey, true)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsAdmin сообщает, помечен ли запрос административным
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(isAdminKey).(bool)
	return ok && isAdmin
}

func parseAdminToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	header := r.Header.Get("Authorization")
	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenStr == "" {
		return nil, jwt.ErrTokenMalformed
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	if role, _ := claims["role"].(string); role != "admin" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func subjectID(claims jwt.MapClaims) (int64, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
