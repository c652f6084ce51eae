// Package metrics holds the portal's metric names and tag conventions.
package metrics

import (
	"sync"
	"time"

	obserrors "github.com/target/campus-portal/internal/observability/errors"
	"github.com/target/campus-portal/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// LoginMetric describes one login attempt.
type LoginMetric struct {
	Method string // "form" or "oauth"
	Role   string
	Result string
	Err    error
}

// EmitLogin counts a login attempt, tagging failures with their error class.
func EmitLogin(sink statsd.Sink, in LoginMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"method": in.Method, "role": in.Role, "result": in.Result}
	if in.Err != nil && in.Result == ResultError {
		tags["error_class"] = obserrors.Classify(in.Err)
	}
	sink.Count("auth.login", 1, tags)
}

// EmitLogout counts a logout; result is noop when there was no session.
func EmitLogout(sink statsd.Sink, result string) {
	if sink == nil {
		return
	}
	sink.Count("auth.logout", 1, map[string]string{"result": result})
}

// EmitGuard counts a guard decision for a role subtree.
func EmitGuard(sink statsd.Sink, required, outcome string) {
	if sink == nil {
		return
	}
	sink.Count("guard.decision", 1, map[string]string{"required_role": required, "outcome": outcome})
}

// RecordMetric describes a feature-page record mutation.
type RecordMetric struct {
	Page   string
	Op     string
	Result string
	Err    error
}

// EmitRecord counts a record mutation.
func EmitRecord(sink statsd.Sink, in RecordMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"page": in.Page, "op": in.Op, "result": in.Result}
	if in.Err != nil && in.Result == ResultError {
		tags["error_class"] = obserrors.Classify(in.Err)
	}
	sink.Count("record.mutation", 1, tags)
}

// EmitHTTPRequest records request latency by route pattern and status class.
func EmitHTTPRequest(sink statsd.Sink, route, status string, d time.Duration) {
	if sink == nil {
		return
	}
	sink.Timing("http.request", d, map[string]string{"route": route, "status": status})
}

// Point is one metric observed by a Recorder.
type Point struct {
	Kind  string // "count" or "timing"
	Name  string
	Value int64
	Tags  map[string]string
}

// Recorder is an in-process Sink that keeps every point; used by tests and
// the admin CLI's dry runs.
type Recorder struct {
	mu     sync.Mutex
	points []Point
}

var _ statsd.Sink = (*Recorder)(nil)

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add(Point{Kind: "count", Name: name, Value: value, Tags: CloneTags(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(Point{Kind: "timing", Name: name, Value: value.Milliseconds(), Tags: CloneTags(tags)})
}

func (r *Recorder) add(p Point) {
	r.mu.Lock()
	r.points = append(r.points, p)
	r.mu.Unlock()
}

// Points returns a copy of everything recorded so far.
func (r *Recorder) Points() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Point(nil), r.points...)
}

// Find returns the recorded points with the given name.
func (r *Recorder) Find(name string) []Point {
	var out []Point
	for _, p := range r.Points() {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
