package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const (
	msgRecordDeleted = "record deleted"
	msgNoRecordFound = "no record found"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var (
	validate = validator.New()

	errEmptyBody = errors.New("request body must be a non-empty JSON object")
)

type requestIDKey struct{}

// WithRequestID returns a context carrying the id used to correlate log
// messages for one request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message":    "writing response body",
			"request_id": RequestID(r.Context()),
			"path":       r.URL.Path,
		}))
	}
}

func writeAborted(w http.ResponseWriter, r *http.Request, cause error) {
	grip.Debug(message.WrapError(cause, message.Fields{
		"message":    "aborting bad request",
		"request_id": RequestID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}))
	writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Aborted"})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	grip.Error(message.WrapError(err, message.Fields{
		"message":    "request failed",
		"request_id": RequestID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}))
	writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

// InternalErrorBody writes the internal error body for a response whose
// status line was already sent with a 500.
func InternalErrorBody(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(errorResponse{Error: "Internal server error"}); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message":    "writing response body",
			"request_id": RequestID(r.Context()),
			"path":       r.URL.Path,
		}))
	}
}

// NotFound answers requests for unknown routes and lookups that must exist.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "Not found"})
}

// MethodNotAllowed answers requests whose path matches but whose method does not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
}

func writeDeleted(w http.ResponseWriter, r *http.Request, count int64) {
	msg := msgNoRecordFound
	if count == 1 {
		msg = msgRecordDeleted
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: msg})
}

// decodeBody reads a non-empty JSON object into dst and checks that the
// fields dst marks as required are present.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return errors.Wrap(err, "parsing request body")
	}
	if len(fields) == 0 {
		return errEmptyBody
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errors.Wrap(err, "decoding request body")
	}
	return errors.Wrap(validate.Struct(dst), "validating request body")
}
