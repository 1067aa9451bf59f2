package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/V4T54L/leatherstore/internal/pkg/clientip"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	maxRequestIDLen = 128
)

// RequestContext stores the request's log context: id, method, path, user agent and
// resolved client address. An incoming X-Request-ID is reused when it looks sane.
func RequestContext(resolver *clientip.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			info := &logger.RequestInfo{
				ID:            id,
				Method:        r.Method,
				Path:          r.URL.Path,
				UserAgent:     r.UserAgent(),
				ClientAddress: resolver.Resolve(r),
			}
			next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), info)))
		})
	}
}

// MaxBytes caps request bodies at limit bytes.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
