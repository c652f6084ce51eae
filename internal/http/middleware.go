package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/guard"
	"github.com/target/campus-portal/internal/observability/metrics"
	"github.com/target/campus-portal/internal/observability/statsd"
	"github.com/target/campus-portal/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
						panic(err)
					}
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request latency tagged with the matched route pattern.
// It must wrap the ServeMux directly so the pattern set during routing is
// visible after the call.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			route := r.Pattern
			if route == "" || route == "/" {
				route = "unmatched"
			}
			metrics.EmitHTTPRequest(sink, route, strconv.Itoa(ww.status/100)+"xx", time.Since(start))
		})
	}
}

// Visitor ensures every client carries the visitor cookie that keys its
// pending-destination marker, and stores the ID in the request context.
func Visitor(jar cookieJar) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieValue(r, VisitorCookieName)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				jar.set(w, r, VisitorCookieName, id, visitorCookieMaxAge)
			}
			next.ServeHTTP(w, r.WithContext(SetVisitorInContext(r.Context(), id)))
		})
	}
}

// ResolveSession loads the session named by the session cookie into the
// request context. Stale cookies are cleared; store failures are logged
// and the request proceeds signed out.
func ResolveSession(auth AuthServiceInterface, jar cookieJar, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieValue(r, SessionCookieName)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := auth.CurrentUser(r.Context(), id)
			if err != nil {
				if errors.Is(err, service.ErrNoSession) {
					jar.clear(w, r, SessionCookieName)
				} else {
					logger.WarnContext(r.Context(), "session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// RequireRoleBrowser guards a role subtree for browser navigation. Signed
// out visitors are sent to the login page with the requested path
// remembered; signed-in users of another role are sent to their own home.
// Only GET and HEAD requests record a destination, since the others cannot
// be replayed by a redirect.
func RequireRoleBrowser(nav NavigatorInterface, required domainauth.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := GetSessionFromContext(r.Context())
			in := service.GuardInput{
				Session:  sess,
				Required: required,
				Path:     r.URL.RequestURI(),
			}
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				in.Visitor = GetVisitorFromContext(r.Context())
			}

			d, err := nav.Guard(r.Context(), in)
			if err != nil {
				logger.WarnContext(r.Context(), "guard side effect failed", "error", err)
			}
			if d.Redirects() {
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleAPI guards a role's JSON API. It answers 401 or 403 and never
// records a pending destination.
func RequireRoleAPI(required domainauth.Role, sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := GetSessionFromContext(r.Context())
			d := guard.Decide(guard.Input{Session: sess, Required: required, Now: time.Now()})
			metrics.EmitGuard(sink, string(required), string(d.Outcome))

			switch d.Outcome {
			case guard.OutcomeLogin:
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			case guard.OutcomeHome:
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
