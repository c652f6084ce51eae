package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/guard"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/service"
)

// AuthServiceInterface defines the auth operations the HTTP layer needs.
type AuthServiceInterface interface {
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	BeginOAuth(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteOAuth(ctx context.Context, in service.CompleteLoginInput) (*service.LoginResult, error)
	CurrentUser(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	FormLoginEnabled() bool
	OAuthEnabled() bool
}

// NavigatorInterface applies guard decisions and resolves post-login destinations.
type NavigatorInterface interface {
	Guard(ctx context.Context, in service.GuardInput) (guard.Decision, error)
	PostLoginDestination(ctx context.Context, visitor string, role domainauth.Role) string
	Forget(ctx context.Context, visitor string)
}

// AuthHandlers serves sign-in, sign-out and the session status API.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Nav     NavigatorInterface
	T       *TemplateRenderer
	Jar     cookieJar
	// OAuthRedirectURL is the absolute callback URL registered with the IdP.
	OAuthRedirectURL string
	Logger           *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	data.Title = "Sign in"
	data.CurrentPage = PageLogin
	data.CSRFToken = GetCSRFToken(r)
	data.FormLogin = h.Svc.FormLoginEnabled()
	data.OAuthLogin = h.Svc.OAuthEnabled()
	if data.Roles == nil {
		data.Roles = roleOptions("")
	}
	if err := h.T.Render(w, status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render login page failed", "error", err)
	}
}

// LoginForm shows the login form, or sends a signed-in user home.
// GET /login.
func (h *AuthHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sess, ok := GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, sess.Role.HomePath(), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, PageData{})
}

// LoginSubmit handles the login form.
// POST /login.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, PageData{Error: "The sign-in form could not be read."})
		return
	}
	identifier := r.PostFormValue("identifier")
	role := r.PostFormValue("role")

	res, err := h.Svc.Login(r.Context(), service.LoginInput{
		Identifier:       identifier,
		Secret:           r.PostFormValue("password"),
		Role:             role,
		ReplaceSessionID: cookieValue(r, SessionCookieName),
	})
	if err != nil {
		status, msg := h.loginFailure(r, err)
		h.renderLogin(w, r, status, PageData{
			Error:      msg,
			Identifier: identifier,
			Roles:      roleOptions(role),
		})
		return
	}

	h.Jar.setSession(w, r, res.Session.ID, res.Session.ExpiresAt)
	dest := h.Nav.PostLoginDestination(r.Context(), GetVisitorFromContext(r.Context()), res.Session.Role)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// loginFailure picks the status and user-facing message for a failed login.
func (h *AuthHandlers) loginFailure(r *http.Request, err error) (int, string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, service.ErrFormLoginDisabled):
		return http.StatusNotFound, "Password sign-in is not available."
	case errors.As(err, &appErr) && appErr.Code != apperrors.ErrCodeInternal:
		return StatusFor(err), appErr.Message
	default:
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		return StatusFor(err), "Sign-in is temporarily unavailable. Please try again."
	}
}

// Logout ends the session and shows the signed-out page.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id := cookieValue(r, SessionCookieName); id != "" {
		if err := h.Svc.Logout(r.Context(), id); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Nav.Forget(r.Context(), GetVisitorFromContext(r.Context()))
	h.Jar.clear(w, r, SessionCookieName)
	http.Redirect(w, r, "/auth/signed-out", http.StatusSeeOther)
}

// SignedOut renders the post-logout page.
// GET /auth/signed-out.
func (h *AuthHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Signed out", CurrentPage: PageSignedOut, CSRFToken: GetCSRFToken(r)}
	if err := h.T.Render(w, http.StatusOK, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render signed-out page failed", "error", err)
	}
}

// OAuthLogin starts the IdP flow.
// GET /auth/oauth/login.
func (h *AuthHandlers) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginOAuth(r.Context(), h.OAuthRedirectURL)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin oauth failed", "error", err)
		h.renderLogin(w, r, http.StatusBadGateway, PageData{Error: "Single sign-on is unavailable right now."})
		return
	}

	const oauthCookieMaxAge = 600
	h.Jar.set(w, r, oauthStateCookie, result.State, oauthCookieMaxAge)
	h.Jar.set(w, r, oauthNonceCookie, result.Nonce, oauthCookieMaxAge)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the IdP flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.renderLogin(w, r, http.StatusBadRequest, PageData{Error: "The sign-in response was incomplete."})
		return
	}
	if stateCookie := cookieValue(r, oauthStateCookie); stateCookie == "" || stateCookie != state {
		h.renderLogin(w, r, http.StatusBadRequest, PageData{Error: "The sign-in response did not match this browser."})
		return
	}
	nonce := cookieValue(r, oauthNonceCookie)
	h.Jar.clear(w, r, oauthStateCookie)
	h.Jar.clear(w, r, oauthNonceCookie)

	res, err := h.Svc.CompleteOAuth(r.Context(), service.CompleteLoginInput{
		Code:             code,
		State:            state,
		Nonce:            nonce,
		ReplaceSessionID: cookieValue(r, SessionCookieName),
	})
	if err != nil {
		if errors.Is(err, service.ErrNoPortalRole) {
			h.renderLogin(w, r, http.StatusForbidden, PageData{Error: service.ErrNoPortalRole.Message})
			return
		}
		h.logger().ErrorContext(r.Context(), "complete oauth failed", "error", err)
		h.renderLogin(w, r, http.StatusBadGateway, PageData{Error: "Single sign-on could not be completed."})
		return
	}

	h.Jar.setSession(w, r, res.Session.ID, res.Session.ExpiresAt)
	dest := h.Nav.PostLoginDestination(r.Context(), GetVisitorFromContext(r.Context()), res.Session.Role)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// sessionView is the JSON shape of a signed-in session.
type sessionView struct {
	Authenticated bool            `json:"authenticated"`
	User          *sessionUser    `json:"user,omitempty"`
	Role          domainauth.Role `json:"role,omitempty"`
	Home          string          `json:"home,omitempty"`
	ExpiresAt     string          `json:"expires_at,omitempty"`
	RedirectTo    string          `json:"redirect_to,omitempty"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func viewOf(s *domainauth.Session) sessionView {
	if s == nil {
		return sessionView{Authenticated: false}
	}
	return sessionView{
		Authenticated: true,
		User:          &sessionUser{ID: s.UserID, Name: s.DisplayName, Email: s.Email},
		Role:          s.Role,
		Home:          s.Role.HomePath(),
		ExpiresAt:     s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// SessionStatus reports the current session.
// GET /api/session.
func (h *AuthHandlers) SessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := GetSessionFromContext(r.Context())
	WriteJSON(w, http.StatusOK, viewOf(sess))
}

// loginRequest is the JSON login body.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
	Role       string `json:"role"`
}

// SessionLogin signs in a JSON client.
// POST /api/session.
func (h *AuthHandlers) SessionLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.Login(r.Context(), service.LoginInput{
		Identifier:       req.Identifier,
		Secret:           req.Secret,
		Role:             req.Role,
		ReplaceSessionID: cookieValue(r, SessionCookieName),
	})
	if err != nil {
		if errors.Is(err, service.ErrFormLoginDisabled) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "form_login_disabled", Err: err})
			return
		}
		if StatusFor(err) == http.StatusInternalServerError {
			h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		}
		WriteServiceError(w, err)
		return
	}

	h.Jar.setSession(w, r, res.Session.ID, res.Session.ExpiresAt)
	view := viewOf(&res.Session)
	view.RedirectTo = h.Nav.PostLoginDestination(r.Context(), GetVisitorFromContext(r.Context()), res.Session.Role)
	WriteJSON(w, http.StatusOK, view)
}

// SessionLogout signs out a JSON client. It succeeds without a session.
// DELETE /api/session.
func (h *AuthHandlers) SessionLogout(w http.ResponseWriter, r *http.Request) {
	if id := cookieValue(r, SessionCookieName); id != "" {
		if err := h.Svc.Logout(r.Context(), id); err != nil {
			h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
			WriteServiceError(w, err)
			return
		}
	}
	h.Nav.Forget(r.Context(), GetVisitorFromContext(r.Context()))
	h.Jar.clear(w, r, SessionCookieName)
	WriteJSON(w, http.StatusOK, viewOf(nil))
}
