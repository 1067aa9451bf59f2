package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/clientip"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/pkg/logger/loggertest"
	"github.com/V4T54L/leatherstore/internal/pkg/txguard"
)

type recordingResponder struct {
	unauthorized, forbidden, throttled int
	internal                           []error
}

func (r *recordingResponder) Unauthorized(w http.ResponseWriter, _ *http.Request) {
	r.unauthorized++
	w.WriteHeader(http.StatusUnauthorized)
}

func (r *recordingResponder) Forbidden(w http.ResponseWriter, _ *http.Request) {
	r.forbidden++
	w.WriteHeader(http.StatusForbidden)
}

func (r *recordingResponder) TooManyRequests(w http.ResponseWriter, _ *http.Request) {
	r.throttled++
	w.WriteHeader(http.StatusTooManyRequests)
}

func (r *recordingResponder) Internal(w http.ResponseWriter, req *http.Request, err error) {
	if g := txguard.FromContext(req.Context()); g != nil {
		_ = g.RollbackAll()
	}
	r.internal = append(r.internal, err)
	w.WriteHeader(http.StatusInternalServerError)
}

// steppingClock returns each of times in turn, repeating the last one.
func steppingClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[min(i, len(times)-1)]
		i++
		return t
	}
}

func withRequestContext(t *testing.T, h http.Handler) http.Handler {
	t.Helper()
	resolver, err := clientip.NewResolver(nil)
	require.NoError(t, err)
	return RequestContext(resolver)(h)
}

func TestLogging_EmitsOneRecordPerRequest(t *testing.T) {
	capture := &loggertest.Capture{}
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mw := Logging(capture, LoggingConfig{Clock: steppingClock(start, start.Add(42*time.Millisecond))})

	h := withRequestContext(t, mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.SetActor(r.Context(), logger.Actor{ID: 3, Username: "erin", Role: "user"})
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)

	events := capture.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, logger.ChannelRequests, e.Channel)
	assert.Equal(t, logger.LevelInfo, e.Level)
	assert.Equal(t, http.MethodPost, e.Method)
	assert.Equal(t, "/cart/add", e.Path)
	assert.Equal(t, http.StatusCreated, e.StatusCode)
	require.NotNil(t, e.DurationMS)
	assert.Equal(t, int64(42), *e.DurationMS)
	require.NotNil(t, e.Actor)
	assert.Equal(t, "erin", e.Actor.Username)
	assert.Equal(t, "198.51.100.4", e.ClientAddress)
	assert.NotEmpty(t, e.RequestID)
}

func TestLogging_SlowRequestIsWarning(t *testing.T) {
	capture := &loggertest.Capture{}
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mw := Logging(capture, LoggingConfig{Clock: steppingClock(start, start.Add(1500*time.Millisecond))})

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog", nil))

	events := capture.Channel(logger.ChannelRequests)
	require.Len(t, events, 1)
	assert.Equal(t, logger.LevelWarning, events[0].Level)
	assert.Equal(t, int64(1500), *events[0].DurationMS)
	assert.Equal(t, http.StatusOK, events[0].StatusCode)
}

func TestLogging_ExactlyThresholdIsInfo(t *testing.T) {
	capture := &loggertest.Capture{}
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mw := Logging(capture, LoggingConfig{Clock: steppingClock(start, start.Add(time.Second))})

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, capture.Events(), 1)
	assert.Equal(t, logger.LevelInfo, capture.Events()[0].Level)
}

func TestLogging_SkipsStaticAssets(t *testing.T) {
	capture := &loggertest.Capture{}
	served := false
	mw := Logging(capture, LoggingConfig{})

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { served = true })).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/logo.png", nil))

	assert.True(t, served)
	assert.Empty(t, capture.Events())
}

func TestRequestContext_RequestID(t *testing.T) {
	var got *logger.RequestInfo
	h := withRequestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.RequestFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	req.Header.Set("User-Agent", "curl/8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "abc-123", got.ID)
	assert.Equal(t, "curl/8", got.UserAgent)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/about", nil))
	assert.Len(t, got.ID, 36)
}

type fakeTx struct{ rolledBack bool }

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

func TestRecover_RollsBackAndResponds(t *testing.T) {
	responder := &recordingResponder{}
	tx := &fakeTx{}

	h := Recover(responder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		txguard.Track(r.Context(), tx)
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/checkout", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, tx.rolledBack)
	require.Len(t, responder.internal, 1)
	var p *PanicError
	require.True(t, errors.As(responder.internal[0], &p))
	assert.Equal(t, "boom", p.Value)
	assert.NotEmpty(t, p.Stack)
}

func TestRecover_ReraisesAbort(t *testing.T) {
	h := Recover(&recordingResponder{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

type fakeAuthenticator map[string]*domain.User

func (f fakeAuthenticator) Authenticate(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func TestSession_AttachesUserAndActor(t *testing.T) {
	auth := fakeAuthenticator{"good": {ID: 5, Username: "frank", Role: domain.RoleManager}}
	var user *domain.User
	var info *logger.RequestInfo
	h := withRequestContext(t, Session(auth, "session_id", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserFromContext(r.Context())
		info = logger.RequestFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "good"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, user)
	assert.Equal(t, "frank", user.Username)
	assert.Equal(t, &logger.Actor{ID: 5, Username: "frank", Role: "manager"}, info.Actor)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "expired"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, user)
	assert.Nil(t, info.Actor)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "customer", user: &domain.User{Role: domain.RoleUser}, want: http.StatusForbidden},
		{name: "manager", user: &domain.User{Role: domain.RoleManager}, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireRole(&recordingResponder{}, domain.RoleAdmin, domain.RoleManager)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), "s", tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	capture := &loggertest.Capture{}
	responder := &recordingResponder{}
	limiter := NewClientLimiter(1, 2)
	h := withRequestContext(t, LoginRateLimit(limiter, logger.NewActionLogger(capture), nil, responder)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	events := capture.Channel(logger.ChannelAuth)
	require.Len(t, events, 1)
	assert.Equal(t, logger.LevelWarning, events[0].Level)
	assert.Equal(t, "rate_limited", events[0].Extra["reason"])
	assert.Equal(t, "192.0.2.10", events[0].ClientAddress)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "192.0.2.11:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients have their own bucket")
}

func TestClientLimiter_Refills(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	l := NewClientLimiter(60, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
}

func TestMaxBytes(t *testing.T) {
	var readErr error
	h := MaxBytes(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("too long")))

	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(readErr, &tooLarge))
}
