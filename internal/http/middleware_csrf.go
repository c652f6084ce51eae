package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName is the default name for the CSRF cookie and form field.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the default name for the CSRF header (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the default length of the CSRF token in bytes.
	DefaultCSRFTokenLength = 32
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	TokenLength   int
	Jar           cookieJar
	// Skip exempts requests, e.g. the JSON API which relies on SameSite cookies
	// and a JSON content type instead.
	Skip func(r *http.Request) bool
}

// CSRFProtection protects the browser forms with the double-submit cookie
// pattern. Safe methods only mint the token; state-changing methods must
// echo it in the X-Csrf-Token header or the csrf_token form field.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultCSRFCookieName
	}
	if cfg.TokenLength == 0 {
		cfg.TokenLength = DefaultCSRFTokenLength
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			token := cookieValue(r, cfg.CookieName)
			if token == "" {
				var err error
				token, err = generateCSRFToken(cfg.TokenLength)
				if err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.Jar.Domain,
					Secure:   cfg.Jar.secure(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   3600 * 12,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))
			if requiresCSRFValidation(r.Method) && !validateCSRFToken(r, token, cfg) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// generateCSRFToken fails closed: no predictable fallback token.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// validateCSRFToken compares the submitted token with the cookie in constant time.
func validateCSRFToken(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieToken == "" {
		return false
	}
	submitted := r.Header.Get(cfg.HeaderName)
	if submitted == "" {
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") &&
			!strings.HasPrefix(ct, "multipart/form-data") {
			return false
		}
		if err := r.ParseForm(); err != nil {
			return false
		}
		submitted = r.PostFormValue(cfg.FormFieldName)
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token minted for the request, for embedding in forms.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
