package handlers

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/logging"
	"delivery-scenario-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"net/http"
)

// statusClientClosedRequest is logged when the caller went away mid-request.
const statusClientClosedRequest = 499

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log := logging.Get()
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writePlanError maps planning failures onto HTTP statuses: caller mistakes
// are 400, upstream cost failures 502, everything else 500.
func writePlanError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		pe *domain.ProviderError
		ie *domain.IncompleteCostMatrixError
	)

	status := http.StatusInternalServerError
	msg := "internal server error"
	switch {
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		status = statusClientClosedRequest
	case domain.IsValidation(err):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.As(err, &pe), errors.As(err, &ie):
		status, msg = http.StatusBadGateway, err.Error()
	}

	log := logging.Get()
	ev := log.Warn()
	if status == http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Str("req_id", obs.RequestID(r.Context())).
		Str("op", op).
		Int("status", status).
		Err(err).
		Msg("request failed")

	if status == statusClientClosedRequest {
		w.WriteHeader(status)
		return
	}
	writeError(w, r, status, msg)
}
