package middleware

import (
	"log/slog"
	"net/http"

	"github.com/adboard/adboard/internal/apperr"
	"github.com/adboard/adboard/internal/session"
)

// Session opens one persistence session per request and releases it after the
// handler returns, whichever way it returns. A panic still releases the
// session before it propagates to Recoverer.
func Session(opener session.Opener, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := opener.Open(r.Context())
			if err != nil {
				logger.Error("failed to open session",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAppError(w, r, apperr.ServiceUnavailable("database unavailable"))
				return
			}
			defer sess.Close()

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}
