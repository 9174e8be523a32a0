// internal/app/system/apiutil/apiutil.go

// Package apiutil holds small helpers shared by the JSON API handlers:
// response encoding, request decoding, and the mapping from classified
// store errors to HTTP status codes.
package apiutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies. API payloads here are a handful of
// object IDs, so 64 KiB is generous.
const maxBodyBytes = 64 << 10

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON shape for all API errors.
type errorResponse struct {
	Error string         `json:"error"`
	Class storeerr.Class `json:"class"`
}

// WriteError classifies err, logs it, and writes the matching status with a
// user-presentable message. Raw store errors never reach the response body.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	class := storeerr.ClassOf(err)
	status := StatusForClass(class)
	if log != nil {
		if status >= 500 {
			log.Error("request failed", zap.String("class", string(class)), zap.Error(err))
		} else {
			log.Debug("request rejected", zap.String("class", string(class)), zap.Error(err))
		}
	}
	WriteJSON(w, status, errorResponse{Error: storeerr.UserMessage(err), Class: class})
}

// DecodeJSON reads the request body into v. An empty body leaves v at its
// zero value, so endpoints with optional bodies can share this helper.
func DecodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return storeerr.New(storeerr.InvalidArgument, "The request body is not valid JSON.")
	}
	return nil
}

// StatusForClass maps a store error class to an HTTP status code.
func StatusForClass(class storeerr.Class) int {
	switch class {
	case storeerr.NotFound:
		return http.StatusNotFound
	case storeerr.PermissionDenied:
		return http.StatusForbidden
	case storeerr.Unauthenticated:
		return http.StatusUnauthorized
	case storeerr.InvalidArgument, storeerr.OutOfRange, storeerr.SelfReferenceNotAllowed:
		return http.StatusBadRequest
	case storeerr.AlreadyExists, storeerr.AlreadyInState, storeerr.FailedPrecondition:
		return http.StatusConflict
	case storeerr.ResourceExhausted:
		return http.StatusTooManyRequests
	case storeerr.Unavailable:
		return http.StatusServiceUnavailable
	case storeerr.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case storeerr.Cancelled:
		// Client went away; 499 is the conventional nginx code.
		return 499
	case storeerr.Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
