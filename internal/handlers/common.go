package handlers

import (
	"log/slog"
	"net/http"

	"pizza-dashboard/internal/errors"
	"pizza-dashboard/internal/observability"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/session"
)

const cacheMaxAge = "public, max-age=300"

// requireData writes a 503 and returns false when the dataset never loaded.
func requireData(w http.ResponseWriter, r *http.Request, dataset *services.Dataset, logger *slog.Logger) bool {
	if _, err := dataset.Records(); err != nil {
		errors.WriteError(w, logger, errors.DataUnavailable(err), observability.GetRequestID(r.Context()))
		return false
	}
	return true
}

// requireSession returns the caller's session attached by the session
// middleware, writing a 500 when it is missing.
func requireSession(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		errors.WriteError(w, logger, errors.Internal("session not initialized"), observability.GetRequestID(r.Context()))
		return nil, false
	}
	return sess, true
}
