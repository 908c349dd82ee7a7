package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/watshodapay/watshodapay-go/internal/crypto"
)

type refresher struct {
	*crypto.TokenService
}

func (r refresher) Refresh(id crypto.Identity) (string, time.Time, error) {
	return r.Issue(id, 0)
}

func newTokens(t *testing.T) refresher {
	t.Helper()
	ts, err := crypto.NewTokenService("middleware-secret", time.Minute, "watshodapay")
	require.NoError(t, err)
	return refresher{ts}
}

func whoami(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(id.Email))
}

func TestAuthBearer(t *testing.T) {
	tokens := newTokens(t)
	token, _, err := tokens.Issue(crypto.Identity{ID: 7, Email: "ana@example.com"}, 0)
	require.NoError(t, err)

	h := Auth(tokens, false)(http.HandlerFunc(whoami))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ana@example.com", rec.Body.String())

	fresh := rec.Header().Get(TokenHeader)
	require.NotEmpty(t, fresh)
	id, ok := tokens.Verify(fresh)
	require.True(t, ok)
	require.Equal(t, int64(7), id.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, TokenCookie, cookies[0].Name)
	require.Equal(t, fresh, cookies[0].Value)
	require.Equal(t, 90*24*3600, cookies[0].MaxAge)
}

func TestAuthCookie(t *testing.T) {
	tokens := newTokens(t)
	token, _, err := tokens.Issue(crypto.Identity{ID: 3, Email: "bob@example.com"}, 0)
	require.NoError(t, err)

	h := Auth(tokens, false)(http.HandlerFunc(whoami))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "bob@example.com", rec.Body.String())
}

func TestAuthRejects(t *testing.T) {
	tokens := newTokens(t)
	other, err := crypto.NewTokenService("another-secret", time.Minute, "watshodapay")
	require.NoError(t, err)
	forged, _, err := other.Issue(crypto.Identity{ID: 1}, 0)
	require.NoError(t, err)

	h := Auth(tokens, false)(http.HandlerFunc(whoami))
	for name, header := range map[string]string{
		"missing": "",
		"forged":  "Bearer " + forged,
		"garbage": "Bearer not-a-token",
		"scheme":  "Basic abc",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		require.Empty(t, rec.Header().Get(TokenHeader), name)
	}
}

func TestServiceKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		key, header string
		want        int
	}{
		{"s3cret", "AUTH-KEY s3cret", http.StatusNoContent},
		{"s3cret", "AUTH-KEY wrong", http.StatusUnauthorized},
		{"s3cret", "Bearer s3cret", http.StatusUnauthorized},
		{"s3cret", "", http.StatusUnauthorized},
		{"", "AUTH-KEY ", http.StatusForbidden},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/reset-payed", nil)
		req.Header.Set("Authorization", c.header)
		rec := httptest.NewRecorder()
		ServiceKey(c.key)(ok).ServeHTTP(rec, req)
		require.Equal(t, c.want, rec.Code, c.header)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterEvict(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	now := time.Now()
	rl.getLimiter("10.0.0.1", now.Add(-2*visitorIdle))
	rl.getLimiter("10.0.0.2", now)

	rl.evict(now)
	require.Len(t, rl.visitors, 1)
	require.Contains(t, rl.visitors, "10.0.0.2")
}

func TestLoggerSetsRequestID(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Logger)
	r.Get("/debts/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })

	req := httptest.NewRequest(http.MethodGet, "/debts/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	require.NoError(t, err)

	given := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/debts/1", nil)
	req.Header.Set(RequestIDHeader, given)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, given, rec.Header().Get(RequestIDHeader))
}
