package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/guard"
	"github.com/target/campus-portal/internal/observability/metrics"
	"github.com/target/campus-portal/internal/observability/statsd"
	"github.com/target/campus-portal/internal/ports"
)

// DefaultMarkerTTL bounds how long a pending destination survives without a login.
const DefaultMarkerTTL = 10 * time.Minute

// NavigatorConfig carries optional tunables for Navigator.
type NavigatorConfig struct {
	MarkerTTL time.Duration
	Metrics   statsd.Sink
	Logger    *slog.Logger
	Now       func() time.Time
}

// NavigatorOptions groups dependencies for Navigator.
type NavigatorOptions struct {
	Markers ports.MarkerStore // required
	Config  NavigatorConfig
}

// Navigator applies route guard decisions and resolves post-login
// destinations. It is the only writer and the only reader of the
// pending-destination marker.
type Navigator struct {
	markers ports.MarkerStore
	ttl     time.Duration
	metrics statsd.Sink
	logger  *slog.Logger
	now     func() time.Time
}

// NewNavigator constructs a Navigator.
func NewNavigator(opts NavigatorOptions) *Navigator {
	if opts.Markers == nil {
		panic("MarkerStore is required")
	}
	n := &Navigator{
		markers: opts.Markers,
		ttl:     opts.Config.MarkerTTL,
		metrics: opts.Config.Metrics,
		logger:  opts.Config.Logger,
		now:     opts.Config.Now,
	}
	if n.ttl <= 0 {
		n.ttl = DefaultMarkerTTL
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	if n.now == nil {
		n.now = time.Now
	}
	return n
}

// GuardInput describes one attempt to enter a guarded route.
type GuardInput struct {
	Visitor  string              // visitor cookie value keying the marker
	Session  *domainauth.Session // nil when signed out
	Required domainauth.Role
	Path     string
}

// Guard decides the request and records the pending destination when the
// decision asks for it. The marker is written here, once per decision.
// A marker write failure is returned alongside the decision, which stays
// valid: the visitor still goes to login, only the way back is lost.
func (n *Navigator) Guard(ctx context.Context, in GuardInput) (guard.Decision, error) {
	d := guard.Decide(guard.Input{
		Session:  in.Session,
		Required: in.Required,
		Path:     in.Path,
		Now:      n.now(),
	})
	metrics.EmitGuard(n.metrics, string(in.Required), string(d.Outcome))

	if d.Outcome != guard.OutcomeLogin || d.Remember == "" || in.Visitor == "" {
		return d, nil
	}
	if err := n.markers.Remember(ctx, in.Visitor, d.Remember, n.ttl); err != nil {
		return d, fmt.Errorf("remember destination: %w", err)
	}
	n.logger.DebugContext(ctx, "pending destination recorded", "path", d.Remember)
	return d, nil
}

// PostLoginDestination consumes the visitor's marker and returns where a
// freshly signed-in user of role should go. The marker is cleared even
// when it is unusable, so it never influences a later login.
func (n *Navigator) PostLoginDestination(ctx context.Context, visitor string, role domainauth.Role) string {
	if visitor == "" {
		return role.HomePath()
	}
	path, ok, err := n.markers.Consume(ctx, visitor)
	if err != nil {
		n.logger.WarnContext(ctx, "consume pending destination failed", "error", err)
		return role.HomePath()
	}
	if !ok {
		return role.HomePath()
	}
	return guard.PostLogin(path, role)
}

// Forget drops any pending destination for visitor without using it.
func (n *Navigator) Forget(ctx context.Context, visitor string) {
	if visitor == "" {
		return
	}
	if _, _, err := n.markers.Consume(ctx, visitor); err != nil {
		n.logger.WarnContext(ctx, "discard pending destination failed", "error", err)
	}
}
