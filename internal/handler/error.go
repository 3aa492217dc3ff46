// Package handler holds the shared HTTP response helpers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/middleware"
	"github.com/balcao-pos/balcao/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// ErrorResponse writes a domain error as JSON with the mapped status.
// Validation errors become 400s with per-field messages; internal
// errors are logged and reported but the response stays generic.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var body errorBody

	if fields := domain.GetValidationFields(err); fields != nil {
		body.Error.Code = domain.EINVALID
		body.Error.Message = "Validation failed"
		body.Error.Fields = fields
		RespondJSON(w, http.StatusBadRequest, body)
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	if status >= 500 {
		middleware.GetLogger(r.Context()).Error("request failed",
			slog.String("op", domain.ErrorOp(err)),
			slog.String("code", code),
			slog.Any("error", err),
		)
		telemetry.CaptureError(err, map[string]string{
			"op":         domain.ErrorOp(err),
			"request_id": middleware.GetRequestID(r.Context()),
		})
	}

	body.Error.Code = code
	body.Error.Message = domain.ErrorMessage(err)
	RespondJSON(w, status, body)
}

// RespondJSON writes a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// DecodeJSON reads a JSON request body into dst with a size cap.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("request.decode", "The request body is not valid JSON")
	}
	return nil
}
