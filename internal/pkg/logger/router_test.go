package logger

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	mu       sync.Mutex
	written  map[string]int
	dropped  map[string]int
	actions  map[string]int
	rotated  map[string]int
	failures map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		written:  map[string]int{},
		dropped:  map[string]int{},
		actions:  map[string]int{},
		rotated:  map[string]int{},
		failures: map[string]int{},
	}
}

func (m *countingMetrics) EventWritten(channel, level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[channel+"/"+level]++
}

func (m *countingMetrics) EventDropped(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[channel]++
}

func (m *countingMetrics) ActionCompleted(action, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[action+"/"+status]++
}

func (m *countingMetrics) Rotated(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotated[channel]++
}

func (m *countingMetrics) WriteFailed(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[channel]++
}

func setupRouter(t *testing.T, mutate func(*Config), opts ...Option) (*Router, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := Config{
		Dir:         dir,
		Format:      FormatJSON,
		MaxBytes:    1 << 20,
		BackupCount: 3,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	r, err := NewRouter(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, dir
}

func decodeLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range readLines(t, path) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestNewRouter_CreatesChannelFiles(t *testing.T) {
	_, dir := setupRouter(t, nil)

	for _, name := range []string{"app.log", "requests.log", "actions.log", "auth.log", "errors.log"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestRouter_BelowThresholdIsNotAppended(t *testing.T) {
	metrics := newCountingMetrics()
	r, dir := setupRouter(t, nil, WithMetrics(metrics))
	ctx := context.Background()

	r.Emit(ctx, Event{Level: LevelWarning, Channel: ChannelErrors, Message: "not an error"})
	r.Emit(ctx, Event{Level: LevelDebug, Channel: ChannelActions, Message: "noise"})
	r.Emit(ctx, Event{Level: LevelDebug, Channel: ChannelGeneral, Message: "noise"})

	assert.Empty(t, readLines(t, filepath.Join(dir, "errors.log")))
	assert.Empty(t, readLines(t, filepath.Join(dir, "actions.log")))
	assert.Empty(t, readLines(t, filepath.Join(dir, "app.log")))
	assert.Equal(t, 1, metrics.dropped["errors"])
	assert.False(t, r.Enabled(ChannelErrors, LevelWarning))
	assert.True(t, r.Enabled(ChannelErrors, LevelError))
}

func TestRouter_LevelOverrides(t *testing.T) {
	r, dir := setupRouter(t, func(c *Config) {
		c.Levels = map[Channel]Level{ChannelGeneral: LevelDebug}
	})

	r.Emit(context.Background(), Event{Level: LevelDebug, Channel: ChannelGeneral, Message: "verbose"})

	assert.Len(t, readLines(t, filepath.Join(dir, "app.log")), 1)
}

func TestRouter_WritesInEmissionOrder(t *testing.T) {
	r, dir := setupRouter(t, nil)

	const n = 200
	for i := 0; i < n; i++ {
		r.Emit(context.Background(), Event{Level: LevelInfo, Channel: ChannelRequests, Message: fmt.Sprintf("event-%d", i)})
	}

	records := decodeLines(t, filepath.Join(dir, "requests.log"))
	require.Len(t, records, n)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("event-%d", i), rec["message"])
	}
}

func TestRouter_ConcurrentWritesKeepWholeLines(t *testing.T) {
	r, dir := setupRouter(t, func(c *Config) { c.MaxBytes = 4096 })

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Emit(context.Background(), Event{Level: LevelInfo, Channel: ChannelActions, Message: fmt.Sprintf("w%d-%d", worker, i)})
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, name := range []string{"actions.log", "actions.log.1", "actions.log.2", "actions.log.3"} {
		total += len(decodeLines(t, filepath.Join(dir, name)))
	}
	assert.LessOrEqual(t, total, 400)
	assert.Greater(t, total, 0)
}

func TestRouter_ChannelIsolation(t *testing.T) {
	r, dir := setupRouter(t, nil)
	ctx := context.Background()

	r.Emit(ctx, Event{Level: LevelError, Channel: ChannelErrors, Message: "only errors"})
	r.Emit(ctx, Event{Level: LevelInfo, Channel: ChannelAuth, Message: "only auth"})

	assert.Len(t, readLines(t, filepath.Join(dir, "errors.log")), 1)
	assert.Len(t, readLines(t, filepath.Join(dir, "auth.log")), 1)
	for _, name := range []string{"app.log", "requests.log", "actions.log"} {
		assert.Empty(t, readLines(t, filepath.Join(dir, name)), name)
	}
}

func TestRouter_UnknownChannelFallsBackToGeneral(t *testing.T) {
	r, dir := setupRouter(t, nil)

	r.Emit(context.Background(), Event{Level: LevelInfo, Channel: "bogus", Message: "lost?"})

	records := decodeLines(t, filepath.Join(dir, "app.log"))
	require.Len(t, records, 1)
	assert.Equal(t, "app", records[0]["logger"])
}

func TestRouter_RedactsExtra(t *testing.T) {
	r, dir := setupRouter(t, nil)

	r.Emit(context.Background(), Event{
		Level:   LevelInfo,
		Channel: ChannelActions,
		Action:  "user_register",
		Message: "registered",
		Extra:   map[string]any{"password": "secret123", "email": "a@b.com"},
	})

	records := decodeLines(t, filepath.Join(dir, "actions.log"))
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"password": "***MASKED***", "email": "a@b.com"}, records[0]["extra"])
	assert.Equal(t, "success", records[0]["status"])
}

func TestRouter_CustomSensitiveTerms(t *testing.T) {
	r, dir := setupRouter(t, func(c *Config) { c.SensitiveTerms = []string{"card"} })

	r.Emit(context.Background(), Event{
		Level:   LevelInfo,
		Channel: ChannelActions,
		Extra:   map[string]any{"card_number": "4111", "password": "kept"},
	})

	records := decodeLines(t, filepath.Join(dir, "actions.log"))
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"card_number": "***MASKED***", "password": "kept"}, records[0]["extra"])
}

func TestRouter_EnrichesFromRequestContext(t *testing.T) {
	r, dir := setupRouter(t, nil)

	info := &RequestInfo{ID: "req-9", Method: "POST", Path: "/auth/login", UserAgent: "ua", ClientAddress: "198.51.100.4"}
	ctx := WithRequest(context.Background(), info)
	SetActor(ctx, Actor{ID: 5, Username: "alice"})

	r.Emit(ctx, Event{Level: LevelInfo, Channel: ChannelAuth, Message: "hello"})

	records := decodeLines(t, filepath.Join(dir, "auth.log"))
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "198.51.100.4", rec["client_address"])
	assert.Equal(t, "req-9", rec["request_id"])
	assert.Equal(t, "POST", rec["method"])
	assert.Equal(t, "/auth/login", rec["path"])
	assert.Equal(t, "alice", rec["username"])
	assert.Equal(t, float64(5), rec["user_id"])
	assert.Equal(t, "2024-03-09T14:05:07.123456Z", rec["timestamp"])
}

func TestRouter_ErrorStatusAlwaysExplains(t *testing.T) {
	r, dir := setupRouter(t, nil)

	r.Emit(context.Background(), Event{Level: LevelError, Channel: ChannelActions, Action: "order_create"})

	records := decodeLines(t, filepath.Join(dir, "actions.log"))
	require.Len(t, records, 1)
	assert.Equal(t, "error", records[0]["status"])
	assert.Equal(t, "order_create failed", records[0]["message"])
}

func TestRouter_ConsoleEcho(t *testing.T) {
	var console bytes.Buffer
	r, _ := setupRouter(t, func(c *Config) {
		c.Format = FormatText
		c.Console = &console
		c.ConsoleLevel = LevelWarning
	})
	ctx := context.Background()

	r.Emit(ctx, Event{Level: LevelInfo, Channel: ChannelRequests, Message: "quiet"})
	r.Emit(ctx, Event{Level: LevelWarning, Channel: ChannelRequests, Message: "slow"})

	assert.Equal(t, "2024-03-09 14:05:07 - app.requests - WARNING - [IP: N/A] - slow\n", console.String())
}

func TestRouter_WriteFailureDisablesOnlyThatChannel(t *testing.T) {
	metrics := newCountingMetrics()
	var report bytes.Buffer
	r, dir := setupRouter(t, nil, WithMetrics(metrics), WithFailureReport(&report))
	ctx := context.Background()

	require.NoError(t, r.sinks[ChannelAuth].out.Close())

	r.Emit(ctx, Event{Level: LevelInfo, Channel: ChannelAuth, Message: "lost"})
	r.Emit(ctx, Event{Level: LevelInfo, Channel: ChannelAuth, Message: "lost again"})
	r.Emit(ctx, Event{Level: LevelInfo, Channel: ChannelActions, Message: "fine"})

	assert.Equal(t, 1, metrics.failures["auth"])
	assert.Contains(t, report.String(), "channel auth disabled")
	assert.Len(t, readLines(t, filepath.Join(dir, "actions.log")), 1)
	assert.Equal(t, 1, metrics.written["actions/INFO"])
}

func TestRouter_RotationIsCounted(t *testing.T) {
	metrics := newCountingMetrics()
	r, dir := setupRouter(t, func(c *Config) { c.MaxBytes = 300; c.BackupCount = 2 }, WithMetrics(metrics))

	for i := 0; i < 20; i++ {
		r.Emit(context.Background(), Event{Level: LevelInfo, Channel: ChannelRequests, Message: fmt.Sprintf("request-%02d", i)})
	}

	assert.FileExists(t, filepath.Join(dir, "requests.log.1"))
	assert.Positive(t, metrics.rotated["requests"])
}

func TestRouter_ActionMetrics(t *testing.T) {
	metrics := newCountingMetrics()
	r, _ := setupRouter(t, nil, WithMetrics(metrics))

	r.Emit(context.Background(), Event{Level: LevelInfo, Channel: ChannelActions, Action: "cart_add", Status: StatusSuccess})

	assert.Equal(t, 1, metrics.actions["cart_add/success"])
}

func TestRouter_InstallRoutesDefaultLoggers(t *testing.T) {
	r, dir := setupRouter(t, nil)

	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	r.Install()
	slog.Info("from slog", "component", "test")
	log.Print("from log")

	records := decodeLines(t, filepath.Join(dir, "app.log"))
	require.Len(t, records, 2)
	assert.Equal(t, "from slog", records[0]["message"])
	assert.Equal(t, map[string]any{"component": "test"}, records[0]["extra"])
	assert.Equal(t, "from log", records[1]["message"])
}

func TestRouter_ErrorLog(t *testing.T) {
	r, dir := setupRouter(t, nil)

	r.ErrorLog().Print("http: TLS handshake error")

	records := decodeLines(t, filepath.Join(dir, "errors.log"))
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "http: TLS handshake error", records[0]["message"])
	assert.Empty(t, readLines(t, filepath.Join(dir, "app.log")))
}
