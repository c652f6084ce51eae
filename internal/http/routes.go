package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/observability/statsd"
	"github.com/target/campus-portal/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth      AuthServiceInterface   // required
	Navigator NavigatorInterface     // required
	Records   *service.RecordService // required
	Avatars   *service.AvatarService // required
	Renderer  *TemplateRenderer      // optional; embedded templates when nil

	CookieDomain     string
	SecureCookies    bool
	OAuthRedirectURL string
	Metrics          statsd.Sink
	Logger           *slog.Logger
}

// NewRouter creates the portal's handler with its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := services.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer(TemplateRendererConfig{Logger: logger})
		if err != nil {
			return nil, err
		}
	}
	jar := cookieJar{Domain: services.CookieDomain, Secure: services.SecureCookies}

	authHandlers := &AuthHandlers{
		Svc:              services.Auth,
		Nav:              services.Navigator,
		T:                renderer,
		Jar:              jar,
		OAuthRedirectURL: services.OAuthRedirectURL,
		Logger:           logger,
	}
	portal := &PortalHandlers{Records: services.Records, Avatars: services.Avatars, T: renderer, Logger: logger}
	records := &RecordAPIHandlers{Svc: services.Records, Logger: logger}
	avatars := &AvatarAPIHandlers{Svc: services.Avatars, Logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("GET /{$}", portal.Root)
	mux.HandleFunc("/", portal.NotFound)
	registerAuthRoutes(mux, authHandlers, services.Auth.OAuthEnabled())
	for _, role := range domainauth.AllRoles() {
		registerRoleRoutes(mux, roleRoutes{
			Role:    role,
			Browser: RequireRoleBrowser(services.Navigator, role, logger),
			API:     RequireRoleAPI(role, services.Metrics),
		}, routeHandlers{portal: portal, records: records, avatars: avatars})
	}

	var h http.Handler = mux
	h = Metrics(services.Metrics)(h)
	h = CSRFProtection(CSRFConfig{Jar: jar, Skip: csrfExempt})(h)
	h = ResolveSession(services.Auth, jar, logger)(h)
	h = Visitor(jar)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h, nil
}

// csrfExempt skips the JSON API, health checks and the IdP callback.
func csrfExempt(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		r.URL.Path == "/healthz" ||
		r.URL.Path == "/auth/callback"
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, oauth bool) {
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.LoginSubmit)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/signed-out", h.SignedOut)
	mux.HandleFunc("GET /api/session", h.SessionStatus)
	mux.HandleFunc("POST /api/session", h.SessionLogin)
	mux.HandleFunc("DELETE /api/session", h.SessionLogout)
	if oauth {
		mux.HandleFunc("GET /auth/oauth/login", h.OAuthLogin)
		mux.HandleFunc("GET /auth/callback", h.Callback)
	}
}

// roleRoutes carries one role's guards.
type roleRoutes struct {
	Role    domainauth.Role
	Browser func(http.Handler) http.Handler
	API     func(http.Handler) http.Handler
}

type routeHandlers struct {
	portal  *PortalHandlers
	records *RecordAPIHandlers
	avatars *AvatarAPIHandlers
}

func registerRoleRoutes(mux *http.ServeMux, rr roleRoutes, h routeHandlers) {
	base := rr.Role.HomePath()
	mux.Handle("GET "+base, rr.Browser(h.portal.RoleHome(rr.Role)))
	mux.Handle("GET "+base+"/{page}", rr.Browser(h.portal.FeaturePage(rr.Role)))
	mux.Handle("POST "+base+"/{page}", rr.Browser(h.portal.CreateRecord(rr.Role)))
	mux.Handle("GET "+base+"/{page}/{id}/edit", rr.Browser(h.portal.EditRecordForm(rr.Role)))
	mux.Handle("POST "+base+"/{page}/{id}", rr.Browser(h.portal.UpdateRecord(rr.Role)))
	mux.Handle("POST "+base+"/{page}/{id}/delete", rr.Browser(h.portal.DeleteRecord(rr.Role)))
	// everything else under the subtree is still guarded before it 404s
	mux.Handle(base+"/", rr.Browser(http.HandlerFunc(h.portal.NotFound)))

	api := "/api" + base
	mux.Handle("GET "+api+"/pages/{page}/records", rr.API(h.records.List(rr.Role)))
	mux.Handle("POST "+api+"/pages/{page}/records", rr.API(h.records.Create(rr.Role)))
	mux.Handle("GET "+api+"/pages/{page}/records/{id}", rr.API(h.records.Get(rr.Role)))
	mux.Handle("PUT "+api+"/pages/{page}/records/{id}", rr.API(h.records.Update(rr.Role)))
	mux.Handle("DELETE "+api+"/pages/{page}/records/{id}", rr.API(h.records.Delete(rr.Role)))
	mux.Handle("GET "+api+"/avatar", rr.API(http.HandlerFunc(h.avatars.Get)))
	mux.Handle("PUT "+api+"/avatar", rr.API(http.HandlerFunc(h.avatars.Put)))
	mux.Handle("DELETE "+api+"/avatar", rr.API(http.HandlerFunc(h.avatars.Delete)))
	mux.Handle(api+"/", rr.API(http.HandlerFunc(apiNotFound)))
}
