package middleware

import (
	"Arquivista/internal/model"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName имя cookie с токеном сессии.
const CookieName = "auth_token"

var ErrInvalidToken = errors.New("invalid token")

type ctxKey int

const (
	userIDKey ctxKey = iota
	sessionIDKey
)

// Claims: ID это id серверной сессии, Subject это id пользователя.
type Claims struct {
	jwt.RegisteredClaims
}

// SessionResolver проверяет, что сессия из токена ещё существует и не истекла.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*model.Session, error)
}

// BuildToken подписывает токен для сессии.
func BuildToken(sess *model.Session, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatInt(sess.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок, возвращает id сессии и пользователя.
func ParseToken(tokenString, secret string) (string, int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return "", 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return "", 0, ErrInvalidToken
	}
	return claims.ID, userID, nil
}

// SetLoginCookie выставляет cookie сессии; срок cookie совпадает со сроком сессии.
func SetLoginCookie(w http.ResponseWriter, sess *model.Session, secret string, secure bool) error {
	token, err := BuildToken(sess, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearLoginCookie удаляет cookie сессии.
func ClearLoginCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithAuth кладёт user_id и session_id в контекст, если cookie валидна и
// сессия жива. Иначе запрос идёт дальше анонимным: решение принимает хендлер.
func WithAuth(secret string, sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			sessionID, userID, err := ParseToken(c.Value, secret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := sessions.Resolve(r.Context(), sessionID)
			if err != nil || sess.UserID != userID {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext id текущего пользователя, если запрос аутентифицирован.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetSessionIDFromContext id текущей сессии.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}
