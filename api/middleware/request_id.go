package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"

	// caller-supplied ids beyond this length are replaced, not truncated
	maxRequestIDLen = 64
)

// RequestID honors an incoming X-Request-Id when it looks sane, otherwise
// mints a uuid, and carries the id on the response and the log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
