package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
)

// RequestLogger logs one ECS-formatted line per request through logger.
// Health and readiness checks are skipped.
func RequestLogger(logger *slog.Logger, level slog.Level) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:         level,
		Schema:        httplog.SchemaECS,
		RecoverPanics: true,
		Skip: func(r *http.Request, respStatus int) bool {
			return r.URL.Path == "/healthz" || r.URL.Path == "/readyz"
		},
	})
}
