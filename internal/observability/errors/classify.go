package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/target/campus-portal/internal/errors"
)

// Classify returns a short error class suitable for a metric tag.
// AppErrors report their code; anything else reports the innermost
// concrete type in snake form, e.g. "net_operror".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
