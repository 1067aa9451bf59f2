package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

const (
	DefaultStaticPrefix  = "/static/"
	DefaultSlowThreshold = time.Second
)

// LoggingConfig configures the request completion log.
type LoggingConfig struct {
	// StaticPrefix paths are served without a log record.
	StaticPrefix string
	// Requests slower than SlowThreshold are logged as warnings.
	SlowThreshold time.Duration
	Clock         func() time.Time
}

// Logging emits one record on the requests channel when each request completes.
func Logging(emitter logger.Emitter, cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.StaticPrefix == "" {
		cfg.StaticPrefix = DefaultStaticPrefix
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = DefaultSlowThreshold
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, cfg.StaticPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			start := cfg.Clock()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			elapsed := cfg.Clock().Sub(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := logger.LevelInfo
			if elapsed > cfg.SlowThreshold {
				level = logger.LevelWarning
			}

			emitter.Emit(r.Context(), logger.Event{
				Level:      level,
				Channel:    logger.ChannelRequests,
				Message:    fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, status),
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: status,
				DurationMS: logger.Millis(elapsed),
			})
		})
	}
}
