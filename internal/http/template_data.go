package httpx

import (
	"net/http"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
)

// NavItem is one link in the role navigation.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// RoleOption is one choice in the login form's role selector.
type RoleOption struct {
	Value    string
	Label    string
	Selected bool
}

// PageData is the template model shared by every page.
type PageData struct {
	Title       string
	CurrentPage string
	Session     *domainauth.Session
	Nav         []NavItem
	CSRFToken   string
	Error       string
	ErrorField  string

	// Login page.
	Roles        []RoleOption
	Identifier   string
	FormLogin    bool
	OAuthLogin   bool
	SignedOutMsg string

	// Role home and feature pages.
	Pages   []model.Page
	Page    model.Page
	Records []model.Record
	Query   string
	Filter  string
	Values  map[string]string
	Avatar  *model.Avatar

	// Record form: FormMode is create or edit; EditID names the record being edited.
	FormMode FormMode
	EditID   string
}

// basePageData fills the fields every page needs from the request.
func basePageData(r *http.Request, catalog *model.Catalog, current string) PageData {
	data := PageData{
		CurrentPage: current,
		CSRFToken:   GetCSRFToken(r),
	}
	if sess, ok := GetSessionFromContext(r.Context()); ok {
		data.Session = sess
		data.Nav = navFor(catalog, sess.Role, r.URL.Path)
	}
	return data
}

// navFor builds the role's navigation with the entry for path marked active.
func navFor(catalog *model.Catalog, role domainauth.Role, path string) []NavItem {
	items := []NavItem{{Label: "Home", Path: role.HomePath(), Active: path == role.HomePath()}}
	for _, p := range catalog.ForRole(role) {
		items = append(items, NavItem{Label: p.Title, Path: p.Path(), Active: path == p.Path()})
	}
	return items
}

// roleOptions lists every role for the login form.
func roleOptions(selected string) []RoleOption {
	out := make([]RoleOption, 0, len(domainauth.AllRoles()))
	for _, r := range domainauth.AllRoles() {
		out = append(out, RoleOption{Value: string(r), Label: r.Label(), Selected: string(r) == selected})
	}
	return out
}
