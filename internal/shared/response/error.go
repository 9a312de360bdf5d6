package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"starforge/internal/shared/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type errorClass struct {
	status int
	level  slog.Level
	msg    string
}

var classes = map[errors.ErrorType]errorClass{
	errors.ErrorTypeNotFound:     {http.StatusNotFound, slog.LevelDebug, "Resource not found"},
	errors.ErrorTypeValidation:   {http.StatusBadRequest, slog.LevelDebug, "Invalid request"},
	errors.ErrorTypeConflict:     {http.StatusConflict, slog.LevelInfo, "Conflict"},
	errors.ErrorTypeUnauthorized: {http.StatusUnauthorized, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeForbidden:    {http.StatusForbidden, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeRateLimited:  {http.StatusTooManyRequests, slog.LevelWarn, "Rate limit exceeded"},
	errors.ErrorTypeExternal:     {http.StatusServiceUnavailable, slog.LevelError, "External service error"},
}

var internalClass = errorClass{http.StatusInternalServerError, slog.LevelError, "Internal server error"}

func classify(t errors.ErrorType) errorClass {
	if c, ok := classes[t]; ok {
		return c
	}
	return internalClass
}

// StatusCode returns the HTTP status an error is reported with.
func StatusCode(err error) int {
	return classify(errors.GetType(err)).status
}

// Error logs err once and writes it as JSON. Handlers and middleware report
// failures only through here. Internal errors never leak their cause.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	class := classify(errorType)

	logger.Log(r.Context(), class.level, class.msg,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", class.status,
		"error", err,
	)

	message := err.Error()
	if class.status == http.StatusInternalServerError {
		message = "internal server error"
	}
	if errorType == errors.ErrorTypeRateLimited && w.Header().Get("Retry-After") == "" {
		w.Header().Set("Retry-After", "1")
	}
	JSON(w, class.status, ErrorResponse{
		Error:   string(errorType),
		Message: message,
		Code:    class.status,
	})
}

// JSON writes data with the given status. Encoding failures after the header
// is sent cannot be reported to the client.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Success writes a JSON payload.
func Success(w http.ResponseWriter, statusCode int, data any) {
	JSON(w, statusCode, data)
}

// Raw writes an already encoded JSON document, such as a stored snapshot.
func Raw(w http.ResponseWriter, statusCode int, data []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err := w.Write(data)
	return err
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
