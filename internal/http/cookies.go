package httpx

import (
	"net/http"
	"strings"
	"time"
)

// cookieJar writes the portal's cookies with consistent attributes.
type cookieJar struct {
	Domain string
	// Secure forces the Secure attribute; otherwise it follows the request scheme.
	Secure bool
}

func (c cookieJar) secure(r *http.Request) bool {
	return c.Secure || r.TLS != nil || isForwardedHTTPS(r)
}

// set writes an HttpOnly, SameSite=Lax cookie.
func (c cookieJar) set(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clear expires a cookie, mirroring the attributes used when it was set.
func (c cookieJar) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setSession writes the session cookie so it expires with the session.
func (c cookieJar) setSession(w http.ResponseWriter, r *http.Request, id string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}
	c.set(w, r, SessionCookieName, id, maxAge)
}

// cookieValue returns the named cookie's value or "".
func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
