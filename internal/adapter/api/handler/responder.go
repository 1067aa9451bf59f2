package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/V4T54L/leatherstore/internal/adapter/api/middleware"
	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/pkg/txguard"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Responder writes JSON responses and owns the 403, 404 and 500 error boundaries.
// Each boundary emits exactly one event.
type Responder struct {
	emitter logger.Emitter
	logger  *slog.Logger
}

func NewResponder(emitter logger.Emitter, log *slog.Logger) *Responder {
	return &Responder{emitter: emitter, logger: log.With("component", "http")}
}

// JSON writes v with the given status. A nil v writes no body.
func (rs *Responder) JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		rs.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func (rs *Responder) message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	rs.JSON(w, r, status, errorResponse{Error: msg})
}

func (rs *Responder) boundary(r *http.Request, ch logger.Channel, level logger.Level, status int, msg, exception string) {
	rs.emitter.Emit(r.Context(), logger.Event{
		Level:      level,
		Channel:    ch,
		Message:    msg,
		Method:     r.Method,
		Path:       r.URL.Path,
		StatusCode: status,
		Exception:  exception,
	})
}

func (rs *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	rs.boundary(r, logger.ChannelRequests, logger.LevelWarning, http.StatusNotFound, "Page not found: "+r.URL.Path, "")
	rs.message(w, r, http.StatusNotFound, "not found")
}

func (rs *Responder) Forbidden(w http.ResponseWriter, r *http.Request) {
	rs.boundary(r, logger.ChannelRequests, logger.LevelWarning, http.StatusForbidden, "Access forbidden: "+r.URL.Path, "")
	rs.message(w, r, http.StatusForbidden, "forbidden")
}

func (rs *Responder) Unauthorized(w http.ResponseWriter, r *http.Request) {
	rs.message(w, r, http.StatusUnauthorized, "login required")
}

func (rs *Responder) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	rs.message(w, r, http.StatusTooManyRequests, "too many requests")
}

func (rs *Responder) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rs.message(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// Internal rolls back every transaction the request opened before it records the
// failure on the errors channel. The body never carries error details.
func (rs *Responder) Internal(w http.ResponseWriter, r *http.Request, err error) {
	if guard := txguard.FromContext(r.Context()); guard != nil {
		if rbErr := guard.RollbackAll(); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}

	exception := logger.DescribeError(err)
	var p *middleware.PanicError
	if errors.As(err, &p) {
		exception += "\n\n" + string(p.Stack)
	}
	rs.boundary(r, logger.ChannelErrors, logger.LevelError, http.StatusInternalServerError, "Internal server error: "+r.URL.Path, exception)
	rs.message(w, r, http.StatusInternalServerError, "internal server error")
}

// Error maps a usecase error to its response.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		rs.message(w, r, http.StatusBadRequest, strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": "))
	case errors.Is(err, usecase.ErrInvalidCredentials):
		rs.message(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrAccountDeactivated):
		rs.message(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		rs.NotFound(w, r)
	case errors.Is(err, domain.ErrForbidden):
		rs.Forbidden(w, r)
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrCategoryInUse),
		errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrConflict):
		rs.message(w, r, http.StatusConflict, err.Error())
	case errors.As(err, &tooLarge):
		rs.message(w, r, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		rs.Internal(w, r, err)
	}
}
