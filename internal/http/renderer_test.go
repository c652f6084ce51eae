package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
)

func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(TemplateRendererConfig{Logger: discardLogger()})
	require.NoError(t, err)
	return r
}

func TestTemplateRenderer_EveryPageRenders(t *testing.T) {
	r := newTestRenderer(t)
	for _, page := range []string{PageLogin, PageHome, PageFeature, PageSignedOut, PageNotFound} {
		t.Run(page, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, r.Render(rec, http.StatusOK, PageData{CurrentPage: page}))
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "Campus Portal")
		})
	}
}

func TestTemplateRenderer_SessionChrome(t *testing.T) {
	r := newTestRenderer(t)
	catalog := model.NewCatalog([]model.Page{
		{Key: "drives", Title: "Placement Drives", Role: domainauth.RoleTPO},
	})
	data := PageData{
		CurrentPage: PageHome,
		CSRFToken:   "tok",
		Session:     &domainauth.Session{DisplayName: "Officer <T1>", Role: domainauth.RoleTPO, UserID: "T1"},
		Nav:         navFor(catalog, domainauth.RoleTPO, "/tpo/drives"),
		Pages:       catalog.ForRole(domainauth.RoleTPO),
	}

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, data))
	body := rec.Body.String()

	assert.Contains(t, body, "Officer &lt;T1&gt; · Training &amp; Placement")
	assert.Contains(t, body, `name="csrf_token" value="tok"`)
	assert.Contains(t, body, `<a href="/tpo/drives" class="active" aria-current="page">Placement Drives</a>`)
	assert.Contains(t, body, `<a href="/tpo">Home</a>`)
}

func TestTemplateRenderer_ErrorBanner(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusBadRequest, PageData{
		CurrentPage: PageLogin,
		FormLogin:   true,
		Error:       "<b>bad</b>",
		ErrorField:  "identifier",
		Roles:       roleOptions("staff"),
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `role="alert" data-field="identifier">&lt;b&gt;bad&lt;/b&gt;`)
	assert.Contains(t, body, `<option value="staff" selected>Staff</option>`)
	assert.NotContains(t, body, "/auth/oauth/login")
}

func TestTemplateRenderer_FeatureTable(t *testing.T) {
	r := newTestRenderer(t)
	page := model.Page{
		Key:   "leaves",
		Title: "Leave Requests",
		Role:  domainauth.RoleStaff,
		Fields: []model.Field{
			{Name: "from", Label: "From", Required: true},
			{Name: "reason", Label: "Reason"},
		},
	}
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, PageData{
		CurrentPage: PageFeature,
		Page:        page,
		Records: []model.Record{
			{ID: "r1", Fields: map[string]string{"from": "2024-03-01", "reason": "Conference"}},
			{
				ID:        "r2",
				Fields:    map[string]string{"from": "2024-03-04", "reason": strings.Repeat("x", 100)},
				UpdatedAt: time.Now().Add(-2 * time.Hour),
			},
		},
		Values:      map[string]string{"reason": "draft"},
		Query:       "conf",
	}))

	body := rec.Body.String()
	assert.Contains(t, body, `<tr data-id="r1">`)
	assert.Contains(t, body, `<td>Conference</td>`)
	assert.Contains(t, body, `action="/staff/leaves/r1/delete"`)
	assert.Contains(t, body, `name="reason" value="draft"`)
	assert.Contains(t, body, `name="q" value="conf"`)
	assert.Contains(t, body, "From *")
	assert.Contains(t, body, `href="/staff/leaves/r1/edit"`)
	assert.Contains(t, body, `action="/staff/leaves" class="create"`)
	assert.Contains(t, body, "<th>Updated</th>")
	assert.Contains(t, body, "<td>"+strings.Repeat("x", 79)+"…</td>")
	assert.NotContains(t, body, strings.Repeat("x", 80))
	assert.Contains(t, body, ">2 hours ago</td>")
}

func TestTemplateRenderer_EditForm(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, PageData{
		CurrentPage: PageFeature,
		Page: model.Page{
			Key: "drives", Title: "Placement Drives", Role: domainauth.RoleTPO,
			Fields: []model.Field{{Name: "company", Label: "Company", Required: true}},
		},
		Values:   map[string]string{"company": "Infosys"},
		FormMode: FormModeEdit,
		EditID:   "d7",
	}))

	body := rec.Body.String()
	assert.Contains(t, body, `action="/tpo/drives/d7" class="edit"`)
	assert.Contains(t, body, `name="company" value="Infosys"`)
	assert.Contains(t, body, `<a href="/tpo/drives">Cancel</a>`)
	assert.NotContains(t, body, `class="create"`)
}

func TestTemplateRenderer_AvatarDataURL(t *testing.T) {
	r := newTestRenderer(t)
	const png = "data:image/png;base64,iVBORw0KGgo="
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, PageData{
		CurrentPage: PageHome,
		Session:     &domainauth.Session{DisplayName: "Asha", Role: domainauth.RoleStudent},
		Avatar:      &model.Avatar{DataURL: png},
	}))
	assert.Contains(t, rec.Body.String(), `src="`+png+`"`)
}

func TestNewTemplateRenderer_ParseError(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: fstest.MapFS{"broken.tmpl": {Data: []byte(`{{define "layout"}}{{if}}{{end}}`)}},
		Logger:     discardLogger(),
	})
	assert.Error(t, err)
}

func TestTemplateRenderer_ExecutionErrorWrites500(t *testing.T) {
	r, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: fstest.MapFS{"layout.tmpl": {Data: []byte(`{{define "layout"}}{{renderSection .CurrentPage .}}{{end}}`)}},
		Logger:     discardLogger(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, PageData{CurrentPage: PageHome})
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestContentTemplateFor(t *testing.T) {
	assert.Equal(t, "feature-content", ContentTemplateFor(PageFeature))
	assert.Equal(t, "not-found-content", ContentTemplateFor("unknown"))
}
