package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/traveline-backoffice/api"
	apperrors "github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/rs/zerolog"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error from the dashboard layer onto the console's own
// response code. Backend failures the operator cannot fix become 502.
func statusFor(err error) int {
	var apiErr *api.Error
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrUnsupported):
		return http.StatusMethodNotAllowed
	case apperrors.Is(err, apperrors.ErrCrossOrigin):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrInvalidResponse), apperrors.Is(err, apperrors.ErrBackend):
		return http.StatusBadGateway
	}
	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Dashboard request failed")
	writeJSON(w, status, errorResponse{Error: err.Error(), Status: status})
}

func chiParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
