package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const serviceKeyScheme = "AUTH-KEY "

// ServiceKey guards maintenance endpoints with "Authorization: AUTH-KEY <key>".
// An empty key rejects every request.
func ServiceKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				writeJSONError(w, http.StatusForbidden, "service key not configured")
				return
			}
			got, found := strings.CutPrefix(r.Header.Get("Authorization"), serviceKeyScheme)
			if !found || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(key)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "invalid service key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
