package handlers

import (
	"encoding/json"
	"errors"
	"evacuation-planner-service/internal/domain"
	"evacuation-planner-service/internal/platform/log"
	"evacuation-planner-service/internal/platform/obs"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "encode failed", "method", r.Method, "path", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// allowMethod writes a 405 and returns false when r does not use method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object into v, rejecting unknown fields.
// It writes the 400 response itself and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrZoneBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoZones),
		errors.Is(err, domain.ErrNoVehicles),
		errors.Is(err, domain.ErrOverEvacuation),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err. Store failures are logged and hidden behind a
// generic message; domain errors are returned to the caller as is.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger log.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(err, op+" failed", "req_id", obs.RequestID(r.Context()))
		writeError(w, r, status, "internal server error")
		return
	}

	logger.Warn(op+" rejected", "req_id", obs.RequestID(r.Context()), "status", status, "err", err.Error())
	writeError(w, r, status, err.Error())
}
