package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/V4T54L/leatherstore/internal/pkg/pii"
)

// Emitter accepts events. *Router is the production implementation.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Metrics receives per-channel counters from the Router.
type Metrics interface {
	EventWritten(channel, level string)
	EventDropped(channel string)
	ActionCompleted(action, status string)
	Rotated(channel string)
	WriteFailed(channel string)
}

// Config describes the channels at startup. It is not reloaded.
type Config struct {
	Dir         string
	Format      Format
	MaxBytes    int64
	BackupCount int

	// Levels overrides the per-channel thresholds returned by DefaultLevels.
	Levels map[Channel]Level

	// Console, when set, receives a copy of every record at or above ConsoleLevel.
	Console      io.Writer
	ConsoleLevel Level

	SensitiveTerms []string
}

// DefaultLevels returns the standard channel thresholds.
func DefaultLevels() map[Channel]Level {
	return map[Channel]Level{
		ChannelGeneral:  LevelInfo,
		ChannelRequests: LevelInfo,
		ChannelActions:  LevelInfo,
		ChannelAuth:     LevelInfo,
		ChannelErrors:   LevelError,
	}
}

// Option customises a Router.
type Option func(*Router)

// WithMetrics reports channel activity to m.
func WithMetrics(m Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithFailureReport replaces stderr as the destination for channel failure notices.
func WithFailureReport(w io.Writer) Option {
	return func(r *Router) { r.failures = w }
}

type sink struct {
	channel Channel
	level   Level
	out     io.WriteCloser
	failed  atomic.Bool
}

type console struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// Router owns the five log channels and writes each event to exactly one of them.
type Router struct {
	formatter Formatter
	redactor  *pii.Redactor
	sinks     map[Channel]*sink
	console   *console
	metrics   Metrics
	now       func() time.Time
	failures  io.Writer
}

// NewRouter creates the log directory and opens one rotating file per channel.
func NewRouter(cfg Config, opts ...Option) (*Router, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", cfg.Dir, err)
	}

	terms := cfg.SensitiveTerms
	if len(terms) == 0 {
		terms = pii.DefaultSensitiveTerms
	}

	r := &Router{
		formatter: NewFormatter(cfg.Format),
		redactor:  pii.NewRedactor(terms),
		sinks:     make(map[Channel]*sink, len(Channels)),
		now:       time.Now,
		failures:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if cfg.Console != nil {
		r.console = &console{w: cfg.Console, level: cfg.ConsoleLevel}
	}

	levels := DefaultLevels()
	for ch, lvl := range cfg.Levels {
		levels[ch] = lvl
	}

	for _, ch := range Channels {
		file, err := OpenRotatingFile(filepath.Join(cfg.Dir, ch.FileName()), cfg.MaxBytes, cfg.BackupCount)
		if err != nil {
			r.Close()
			return nil, err
		}
		if r.metrics != nil {
			channel := string(ch)
			file.onRotate = func() { r.metrics.Rotated(channel) }
		}
		r.sinks[ch] = &sink{channel: ch, level: levels[ch], out: file}
	}
	return r, nil
}

// Enabled reports whether an event at level would be written to ch.
func (r *Router) Enabled(ch Channel, level Level) bool {
	s, ok := r.sinks[ch]
	if !ok {
		s = r.sinks[ChannelGeneral]
	}
	return level >= s.level
}

// Emit enriches, redacts, formats and writes e. It never panics and never blocks on
// anything but the channel's file lock.
func (r *Router) Emit(ctx context.Context, e Event) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(r.failures, "logger: dropped %s event after panic: %v\n", e.Channel, rec)
		}
	}()

	if !e.Channel.valid() {
		e.Channel = ChannelGeneral
	}
	s := r.sinks[e.Channel]
	if e.Level < s.level {
		if r.metrics != nil {
			r.metrics.EventDropped(string(e.Channel))
		}
		return
	}

	if e.Time.IsZero() {
		e.Time = r.now()
	}
	e.Enrich(ctx)
	e.normalize()
	e.Extra = r.redactor.Mask(e.Extra)

	line := r.formatter.Format(&e) + "\n"
	r.write(s, e.Level, line)
	if r.console != nil && e.Level >= r.console.level {
		r.console.write(line)
	}

	if r.metrics != nil && e.Action != "" {
		r.metrics.ActionCompleted(e.Action, string(e.Status))
	}
}

func (r *Router) write(s *sink, level Level, line string) {
	if s.failed.Load() {
		return
	}
	if _, err := io.WriteString(s.out, line); err != nil {
		if s.failed.CompareAndSwap(false, true) {
			fmt.Fprintf(r.failures, "logger: channel %s disabled: %v\n", s.channel, err)
			if r.metrics != nil {
				r.metrics.WriteFailed(string(s.channel))
			}
		}
		return
	}
	if r.metrics != nil {
		r.metrics.EventWritten(string(s.channel), level.String())
	}
}

func (c *console) write(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, line)
}

// Logger returns a slog.Logger whose records go to ch.
func (r *Router) Logger(ch Channel) *slog.Logger {
	return slog.New(r.Handler(ch))
}

// Install makes the general channel the process-wide default for slog and the
// standard log package, so nothing else writes unformatted lines to stderr. It returns
// the general channel logger.
func (r *Router) Install() *slog.Logger {
	general := r.Logger(ChannelGeneral)
	slog.SetDefault(general)
	return general
}

// ErrorLog returns a *log.Logger for http.Server.ErrorLog that writes to the errors
// channel.
func (r *Router) ErrorLog() *log.Logger {
	return slog.NewLogLogger(r.Handler(ChannelErrors), slog.LevelError)
}

// Close closes every channel file.
func (r *Router) Close() error {
	var errs []error
	for _, s := range r.sinks {
		if err := s.out.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
