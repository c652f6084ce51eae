package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/target/campus-portal/internal/errors"
)

func TestEmitLogin_TagsErrorClassOnlyOnFailure(t *testing.T) {
	rec := &Recorder{}

	EmitLogin(rec, LoginMetric{Method: "form", Role: "staff", Result: ResultSuccess, Err: errors.New("ignored")})
	EmitLogin(rec, LoginMetric{Method: "form", Role: "staff", Result: ResultError, Err: apperrors.Validation("blank")})

	points := rec.Find("auth.login")
	require.Len(t, points, 2)
	assert.NotContains(t, points[0].Tags, "error_class")
	assert.Equal(t, "validation", points[1].Tags["error_class"])
	assert.Equal(t, "staff", points[1].Tags["role"])
}

func TestEmitters(t *testing.T) {
	rec := &Recorder{}

	EmitLogout(rec, ResultNoop)
	EmitGuard(rec, "tpo", "home")
	EmitRecord(rec, RecordMetric{Page: "staff/leaves", Op: "create", Result: ResultSuccess})
	EmitHTTPRequest(rec, "GET /staff/{page}", "2xx", 12*time.Millisecond)

	assert.Equal(t, "noop", rec.Find("auth.logout")[0].Tags["result"])
	assert.Equal(t, map[string]string{"required_role": "tpo", "outcome": "home"}, rec.Find("guard.decision")[0].Tags)
	assert.Equal(t, "create", rec.Find("record.mutation")[0].Tags["op"])

	timing := rec.Find("http.request")[0]
	assert.Equal(t, "timing", timing.Kind)
	assert.Equal(t, int64(12), timing.Value)
}

func TestEmitters_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitLogin(nil, LoginMetric{})
		EmitLogout(nil, ResultSuccess)
		EmitGuard(nil, "student", "allow")
		EmitRecord(nil, RecordMetric{})
		EmitHTTPRequest(nil, "/", "2xx", time.Second)
	})
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1"}
	cp := CloneTags(src)
	cp["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
