package http

import (
	"encoding/json"
	"net/http"

	"github.com/km-arc/go-simple-di/framework/validation"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with envelope helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	msg := first(message, "Not found.")
	res.JSON(http.StatusNotFound, envelope{"message": msg})
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	msg := first(message, "Server Error.")
	res.JSON(http.StatusInternalServerError, envelope{"message": msg})
}

// ValidationError sends 422 with the error bag.
//
//	res.ValidationError(validator.Errors())
func (res *Response) ValidationError(errors *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errors)
}

// ── Plain text ───────────────────────────────────────────────────────────────

// Text sends a text/plain response.
func (res *Response) Text(status int, body string) {
	res.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.w.WriteHeader(status)
	_, _ = res.w.Write([]byte(body))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
