package httpx

// Cookie names shared by handlers and middleware.
const (
	SessionCookieName = "session_id"
	VisitorCookieName = "portal_visitor"
	oauthStateCookie  = "oauth_state"
	oauthNonceCookie  = "oauth_nonce"
)

// CurrentPage identifiers select the content template rendered inside the layout.
const (
	PageLogin     = "login"
	PageHome      = "home"
	PageFeature   = "feature"
	PageSignedOut = "signed-out"
	PageNotFound  = "not-found"
)

// visitorCookieMaxAge keeps the visitor cookie for 30 days.
const visitorCookieMaxAge = 30 * 24 * 3600

// maxCellRunes caps a table cell; longer values end in an ellipsis.
const maxCellRunes = 80

// maxFormBytes bounds form and JSON request bodies. Avatar uploads are
// bounded by the avatar service's own limit instead.
const maxFormBytes = 2 << 20

// contentTemplates maps CurrentPage to the template defining its body.
//
//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageLogin:     "login-content",
	PageHome:      "home-content",
	PageFeature:   "feature-content",
	PageSignedOut: "signed-out-content",
	PageNotFound:  "not-found-content",
}

// ContentTemplateFor returns the content template for currentPage,
// falling back to the not-found body.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
