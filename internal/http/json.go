package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	apperrors "github.com/target/campus-portal/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
// Only application/json bodies are accepted, so cross-site form posts cannot reach the API.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return DecodeJSONLimit(w, r, dst, maxFormBytes, nil)
}

// DecodeJSONLimit is DecodeJSON with a caller-chosen body limit. A body over
// the limit is reported as tooLarge, or as 413 request_too_large when nil.
func DecodeJSONLimit(w http.ResponseWriter, r *http.Request, dst any, limit int64, tooLarge error) bool {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnsupportedMediaType,
			ErrCode: "unsupported_media_type",
			Err:     errors.New("content type must be application/json"),
		})
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr) && tooLarge != nil:
			WriteServiceError(w, tooLarge)
		case errors.As(err, &maxErr):
			WriteError(w, ErrorParams{
				Code:    http.StatusRequestEntityTooLarge,
				ErrCode: "request_too_large",
				Err:     fmt.Errorf("request body exceeds %d bytes", limit),
			})
		default:
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		}
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
	Field   string
}

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, errorBody{Error: p.ErrCode, Message: p.Err.Error(), Field: p.Field})
}

// StatusFor maps an error onto an HTTP status using its AppError code.
// Errors without a code are internal.
func StatusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	case apperrors.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case apperrors.IsTimeout(err):
		return http.StatusGatewayTimeout
	case apperrors.IsCanceled(err):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes err as a JSON error. Internal errors are
// reported without their cause.
func WriteServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	code := string(apperrors.GetCode(err))
	if code == "" {
		code = string(apperrors.ErrCodeInternal)
	}

	msg := err
	var appErr *apperrors.AppError
	switch {
	case status == http.StatusInternalServerError || apperrors.IsInternal(err):
		msg = errors.New("internal error")
	case errors.As(err, &appErr):
		msg = errors.New(appErr.Message)
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: code, Err: msg, Field: apperrors.GetField(err)})
}

func asAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
