package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/observability/metrics"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.ValidationField("to", "To is required"), http.StatusBadRequest},
		{"not found", apperrors.NotFound("record not found"), http.StatusNotFound},
		{"unauthorized", apperrors.Unauthorized("sign in"), http.StatusUnauthorized},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden},
		{"unavailable", apperrors.Wrap(errors.New("dial"), apperrors.ErrCodeUnavailable, "store down"), http.StatusServiceUnavailable},
		{"timeout", apperrors.Wrap(context.DeadlineExceeded, apperrors.ErrCodeTimeout, "slow"), http.StatusGatewayTimeout},
		{"canceled", apperrors.Wrap(context.Canceled, apperrors.ErrCodeCanceled, "gone"), http.StatusRequestTimeout},
		{"wrapped", fmt.Errorf("list records: %w", apperrors.NotFound("page not found")), http.StatusNotFound},
		{"internal", apperrors.Internalf("identity expired at %s", "2026-01-01T00:00:00Z"), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	t.Run("validation keeps message and field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteServiceError(rec, fmt.Errorf("create record: %w", apperrors.ValidationField("to", "To is required")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, errorBody{Error: "validation", Message: "To is required", Field: "to"}, body)
	})

	t.Run("internal hides cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteServiceError(rec, errors.New("redis: password=hunter2 rejected"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hunter2")
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "internal", body.Error)
		assert.Equal(t, "internal error", body.Message)
	})
}

func TestVisitor(t *testing.T) {
	var seen string
	h := Visitor(cookieJar{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetVisitorFromContext(r.Context())
	}))

	t.Run("mints a cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staff", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, VisitorCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, seen, cookies[0].Value)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})

	t.Run("reuses a valid cookie", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: id})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Result().Cookies())
		assert.Equal(t, id, seen)
	})

	t.Run("replaces a forged cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "../../etc"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Len(t, rec.Result().Cookies(), 1)
		assert.NotEqual(t, "../../etc", seen)
	})
}

func TestRequireRoleAPI(t *testing.T) {
	rec := &metrics.Recorder{}
	h := RequireRoleAPI(domainauth.RoleStaff, rec)(okHandler())
	now := time.Now()

	tests := []struct {
		name    string
		session *domainauth.Session
		status  int
		outcome string
	}{
		{"signed out", nil, http.StatusUnauthorized, "login"},
		{"expired", &domainauth.Session{ID: "s", Authenticated: true, Role: domainauth.RoleStaff, ExpiresAt: now.Add(-time.Minute)},
			http.StatusUnauthorized, "login"},
		{"other role", &domainauth.Session{ID: "s", Authenticated: true, Role: domainauth.RoleStudent, ExpiresAt: now.Add(time.Hour)},
			http.StatusForbidden, "home"},
		{"matching role", &domainauth.Session{ID: "s", Authenticated: true, Role: domainauth.RoleStaff, ExpiresAt: now.Add(time.Hour)},
			http.StatusOK, "allow"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/staff/pages/leaves/records", nil)
			if tt.session != nil {
				req = req.WithContext(SetSessionInContext(req.Context(), tt.session))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
			points := rec.Find("guard.decision")
			require.Len(t, points, i+1)
			assert.Equal(t, tt.outcome, points[i].Tags["outcome"])
			assert.Equal(t, "staff", points[i].Tags["required_role"])
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template blew up")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/student", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	abort := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		abort.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestMetrics_RouteLabel(t *testing.T) {
	rec := &metrics.Recorder{}
	mux := http.NewServeMux()
	mux.Handle("GET /staff/{page}", okHandler())
	mux.Handle("/", http.NotFoundHandler())
	h := Metrics(rec)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/staff/leaves", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	points := rec.Find("http.request")
	require.Len(t, points, 2)
	assert.Equal(t, map[string]string{"route": "GET /staff/{page}", "status": "2xx"}, points[0].Tags)
	assert.Equal(t, map[string]string{"route": "unmatched", "status": "4xx"}, points[1].Tags)
	assert.Equal(t, "timing", points[0].Kind)
}

func TestMetrics_NilSinkIsPassthrough(t *testing.T) {
	rec := httptest.NewRecorder()
	Metrics(nil)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecodeJSON_RequiresJSONContentType(t *testing.T) {
	var dst loginRequest

	req := httptest.NewRequest(http.MethodPost, "/api/session", stringsReader(`{"identifier":"E1"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	assert.False(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/session", stringsReader(`{"identifier":"E1"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	assert.True(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, "E1", dst.Identifier)
}
