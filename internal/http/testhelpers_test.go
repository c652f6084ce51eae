package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/target/campus-portal/internal/adapters/demoauth"
	"github.com/target/campus-portal/internal/adapters/memory"
	"github.com/target/campus-portal/internal/devseed"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	mockauth "github.com/target/campus-portal/internal/mocks/auth"
	"github.com/target/campus-portal/internal/observability/metrics"
	"github.com/target/campus-portal/internal/service"
)

// portalEnv is a running portal backed by in-memory stores.
type portalEnv struct {
	srv      *httptest.Server
	markers  *memory.MarkerStore
	sessions *memory.SessionStore
	metrics  *metrics.Recorder
	provider *mockauth.MockAuthProvider
	// avatarMaxBytes overrides the avatar size limit when set.
	avatarMaxBytes int
}

type envOption func(*service.AuthServiceOptions, *portalEnv)

// withOAuth enables the IdP flow against a mock provider.
func withOAuth(groups ...string) envOption {
	return func(o *service.AuthServiceOptions, e *portalEnv) {
		e.provider = mockauth.NewMockAuthProvider()
		if len(groups) > 0 {
			e.provider.DefaultUser.Groups = groups
		}
		o.Config.Provider = e.provider
		o.Config.Roles = mockauth.GroupRoleMapper{
			"portal-staff":    domainauth.RoleStaff,
			"portal-students": domainauth.RoleStudent,
			"placement":       domainauth.RoleTPO,
		}
	}
}

// withAvatarLimit sets the avatar service's size limit.
func withAvatarLimit(n int) envOption {
	return func(_ *service.AuthServiceOptions, e *portalEnv) {
		e.avatarMaxBytes = n
	}
}

func newPortalEnv(t *testing.T, opts ...envOption) *portalEnv {
	t.Helper()
	env := &portalEnv{
		markers:  memory.NewMarkerStore(),
		sessions: memory.NewSessionStore(),
		metrics:  &metrics.Recorder{},
	}
	authOpts := service.AuthServiceOptions{
		Verifier: demoauth.NewVerifier(demoauth.Config{}),
		Sessions: env.sessions,
		Config:   service.AuthServiceConfig{Metrics: env.metrics},
	}
	for _, o := range opts {
		o(&authOpts, env)
	}

	seed, err := devseed.Load()
	require.NoError(t, err)

	h, err := NewRouter(RouterServices{
		Auth:      service.NewAuthService(authOpts),
		Navigator: service.NewNavigator(service.NavigatorOptions{
			Markers: env.markers,
			Config:  service.NavigatorConfig{Metrics: env.metrics},
		}),
		Records: service.NewRecordService(service.RecordServiceOptions{
			Catalog: seed.Catalog,
			Seed:    seed.Records,
		}),
		Avatars:          service.NewAvatarService(service.AvatarServiceOptions{
			Store:    memory.NewAvatarStore(),
			MaxBytes: env.avatarMaxBytes,
		}),
		OAuthRedirectURL: "http://portal.test/auth/callback",
		Metrics:          env.metrics,
	})
	require.NoError(t, err)

	env.srv = httptest.NewServer(h)
	t.Cleanup(env.srv.Close)
	return env
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t    *testing.T
	env  *portalEnv
	http *http.Client
}

func (e *portalEnv) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:   t,
		env: e,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a fully read HTTP response.
type response struct {
	Status   int
	Location string
	Body     string
	Header   http.Header
}

func (b *browser) do(req *http.Request) response {
	b.t.Helper()
	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return response{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(body),
		Header:   resp.Header,
	}
}

func (b *browser) get(path string) response {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, b.env.srv.URL+path, nil)
	require.NoError(b.t, err)
	req.Header.Set("Accept", "text/html")
	return b.do(req)
}

// cookie returns the jar's value for name, or "".
func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.env.srv.URL)
	for _, c := range b.http.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// postForm submits a form, minting the CSRF cookie first when needed.
func (b *browser) postForm(path string, form url.Values) response {
	b.t.Helper()
	if b.cookie(DefaultCSRFCookieName) == "" {
		b.get("/login")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.cookie(DefaultCSRFCookieName))
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, b.env.srv.URL+path,
		strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(identifier, role string) response {
	b.t.Helper()
	return b.postForm("/login", url.Values{
		"identifier": {identifier},
		"password":   {"pw"},
		"role":       {role},
	})
}

func (b *browser) api(method, path string, body any) response {
	b.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rdr = strings.NewReader(string(raw))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, b.env.srv.URL+path, rdr)
	require.NoError(b.t, err)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return b.do(req)
}

func decode[T any](t *testing.T, r response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(r.Body), &v), r.Body)
	return v
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

// pageFields looks up a page in the seeded catalogue.
func (e *portalEnv) pageFields(role, key string) (model.Page, error) {
	seed, err := devseed.Load()
	if err != nil {
		return model.Page{}, err
	}
	p, ok := seed.Catalog.Lookup(model.PageRef{Role: domainauth.Role(role), Key: key})
	if !ok {
		return model.Page{}, errors.New("page not found")
	}
	return p, nil
}
