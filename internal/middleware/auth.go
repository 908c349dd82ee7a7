package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/watshodapay/watshodapay-go/internal/crypto"
	"github.com/watshodapay/watshodapay-go/internal/logger"
)

const (
	// TokenCookie carries the session token for browser clients.
	TokenCookie = "watshodapayUserToken"
	// TokenHeader carries the refreshed token on every authenticated response.
	TokenHeader = "X-Auth-Token"

	tokenCookieMaxAge = 90 * 24 * time.Hour
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier verifies and re-issues session tokens.
type TokenVerifier interface {
	Verify(token string) (crypto.Identity, bool)
	Refresh(id crypto.Identity) (string, time.Time, error)
}

// Auth returns middleware that accepts a token from the Authorization
// Bearer header or the session cookie. Every authenticated response carries
// a freshly issued token in TokenHeader and the cookie.
func Auth(tokens TokenVerifier, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing token")
				return
			}

			id, ok := tokens.Verify(token)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if fresh, _, err := tokens.Refresh(id); err != nil {
				logger.From(r.Context()).Warn("token refresh failed", logger.UserID(id.ID), logger.Err(err))
			} else {
				w.Header().Set(TokenHeader, fresh)
				SetTokenCookie(w, fresh, secureCookie)
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(id.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetTokenCookie stores token in the session cookie.
func SetTokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie removes the session cookie.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// IdentityFromContext returns the identity of the authenticated caller.
func IdentityFromContext(ctx context.Context) (crypto.Identity, bool) {
	id, ok := ctx.Value(identityKey).(crypto.Identity)
	return id, ok
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.ID, ok
}

// WithIdentity stores id in ctx the way Auth does.
func WithIdentity(ctx context.Context, id crypto.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
