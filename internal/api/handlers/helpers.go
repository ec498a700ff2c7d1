package handlers

import (
	"encoding/json"
	"errors"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/platform/obs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, r, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: obs.RequestID(r.Context()),
	})
}

// writeServiceError maps domain errors to HTTP statuses. Client mistakes echo the
// error text; provider failures carry the upstream detail; everything else is opaque.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var pse *domain.ProviderStatusError

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrMalformedDocument):
		writeError(w, r, http.StatusBadRequest, "malformed_document", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, r, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &pse):
		slog.WarnContext(r.Context(), "route provider rejected request", "req_id", obs.RequestID(r.Context()), "status", pse.Code, "err", err)
		writeError(w, r, http.StatusBadGateway, "route_provider_rejected",
			"route provider answered "+strconv.Itoa(pse.Code)+": "+pse.Body)
	case errors.Is(err, domain.ErrRouteProviderUnavailable):
		slog.WarnContext(r.Context(), "route provider unavailable", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "route_provider_unavailable", err.Error())
	case errors.Is(err, domain.ErrRouteProviderParse):
		slog.WarnContext(r.Context(), "route provider response unusable", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusBadGateway, "route_provider_parse_error", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "req_id", obs.RequestID(r.Context()), "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// formCoordinates reads a lon/lat pair from the named form fields.
func formCoordinates(r *http.Request, lonField, latField string) (domain.Coordinates, error) {
	lon, err := formFloat(r, lonField)
	if err != nil {
		return domain.Coordinates{}, err
	}
	lat, err := formFloat(r, latField)
	if err != nil {
		return domain.Coordinates{}, err
	}

	c := domain.Coordinates{Lon: lon, Lat: lat}
	if err := c.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return c, nil
}

func formFloat(r *http.Request, field string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, domain.ValidationErrorf("%s is required", field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.ValidationErrorf("%s must be a number, got %q", field, raw)
	}
	return v, nil
}
