package httpx

import (
	"context"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
)

// Context key types are unexported to avoid collisions across packages.
type (
	sessionKey struct{}
	visitorKey struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session resolved for the request, if any.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// SetVisitorInContext stores the visitor ID keying the pending-destination marker.
func SetVisitorInContext(ctx context.Context, visitor string) context.Context {
	if visitor == "" {
		return ctx
	}
	return context.WithValue(ctx, visitorKey{}, visitor)
}

// GetVisitorFromContext returns the visitor ID or "".
func GetVisitorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(visitorKey{}).(string)
	return v
}
