package logger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime/debug"
	"strings"
)

// Action describes a business operation for the ActionLogger.
type Action struct {
	Name string
	// Channel defaults to ChannelActions.
	Channel    Channel
	EntityType string
	EntityID   any
	// Actor overrides the actor of the current request.
	Actor   *Actor
	Extra   map[string]any
	Message string
}

// Outcome lets a wrapped operation attach data only known after it ran.
type Outcome struct {
	action Action
}

// SetEntity records the entity the operation created or changed.
func (o *Outcome) SetEntity(entityType string, id any) {
	o.action.EntityType = entityType
	o.action.EntityID = id
}

// Set adds one key to the event's extra data.
func (o *Outcome) Set(key string, value any) {
	if o.action.Extra == nil {
		o.action.Extra = make(map[string]any)
	}
	o.action.Extra[key] = value
}

// SetActor overrides the actor, e.g. after a login established it.
func (o *Outcome) SetActor(actor Actor) {
	o.action.Actor = &actor
}

// SetMessage replaces the default success message.
func (o *Outcome) SetMessage(msg string) {
	o.action.Message = msg
}

// ActionLogger emits exactly one terminal event for each business action.
type ActionLogger struct {
	emitter Emitter
}

// NewActionLogger creates an ActionLogger writing through e.
func NewActionLogger(e Emitter) *ActionLogger {
	return &ActionLogger{emitter: e}
}

// Perform runs fn and emits a success event if it returns nil, a warning if it returns
// a RefusalError, or an error event if it returns any other error or panics. The error is returned unchanged and panics are re-raised
// after logging.
func (l *ActionLogger) Perform(ctx context.Context, a Action, fn func(ctx context.Context, o *Outcome) error) (err error) {
	o := &Outcome{action: a}
	o.action.Extra = maps.Clone(a.Extra)

	finished := false
	defer func() {
		if finished {
			return
		}
		rec := recover()
		if rec == nil {
			// runtime.Goexit unwound the operation.
			l.emitFailure(ctx, o.action, errors.New("operation aborted"), "")
			return
		}
		l.emitFailure(ctx, o.action, fmt.Errorf("panic: %v", rec), fmt.Sprintf("panic: %v\n\n%s", rec, debug.Stack()))
		panic(rec)
	}()

	err = fn(ctx, o)
	finished = true

	if err != nil {
		var refusal *RefusalError
		if errors.As(err, &refusal) {
			l.Reject(ctx, o.action, refusal.Reason)
			return err
		}
		l.emitFailure(ctx, o.action, err, DescribeError(err))
		return err
	}
	l.Succeed(ctx, o.action)
	return nil
}

// RefusalError marks an expected refusal returned from a Perform operation. Perform
// logs it like Reject instead of as a failure.
type RefusalError struct {
	Reason string
	Err    error
}

func (e *RefusalError) Error() string { return e.Err.Error() }

func (e *RefusalError) Unwrap() error { return e.Err }

// Refuse wraps err as a refusal with reason. It returns nil for a nil err.
func Refuse(reason string, err error) error {
	if err == nil {
		return nil
	}
	return &RefusalError{Reason: reason, Err: err}
}

// Succeed emits the success event for an action that was not wrapped by Perform.
func (l *ActionLogger) Succeed(ctx context.Context, a Action) {
	msg := a.Message
	if msg == "" {
		msg = a.Name + " completed"
	}
	l.emit(ctx, a, LevelInfo, StatusSuccess, msg, "")
}

// Reject emits a warning for an expected refusal, such as bad credentials, tagged
// with a machine-readable reason.
func (l *ActionLogger) Reject(ctx context.Context, a Action, reason string) {
	a.Extra = maps.Clone(a.Extra)
	if a.Extra == nil {
		a.Extra = make(map[string]any, 1)
	}
	a.Extra["reason"] = reason

	msg := a.Message
	if msg == "" {
		msg = fmt.Sprintf("%s rejected: %s", a.Name, reason)
	}
	l.emit(ctx, a, LevelWarning, StatusError, msg, "")
}

// Fail emits the error event for an action that was not wrapped by Perform.
func (l *ActionLogger) Fail(ctx context.Context, a Action, err error) {
	l.emitFailure(ctx, a, err, DescribeError(err))
}

func (l *ActionLogger) emitFailure(ctx context.Context, a Action, err error, exception string) {
	l.emit(ctx, a, LevelError, StatusError, fmt.Sprintf("%s failed: %v", a.Name, err), exception)
}

func (l *ActionLogger) emit(ctx context.Context, a Action, level Level, status Status, msg, exception string) {
	channel := a.Channel
	if channel == "" {
		channel = ChannelActions
	}

	e := Event{
		Level:     level,
		Channel:   channel,
		Message:   msg,
		Action:    a.Name,
		Status:    status,
		Extra:     a.Extra,
		Exception: exception,
	}
	if a.Actor != nil {
		actor := *a.Actor
		e.Actor = &actor
	}
	if a.EntityType != "" {
		e.Entity = &Entity{Type: a.EntityType, ID: a.EntityID}
	}
	l.emitter.Emit(ctx, e)
}

// DescribeError renders err and every error it wraps, one per line. It is the
// exception text of failure events.
func DescribeError(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%T: %v", err, err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(&b, "\ncaused by %T: %v", cause, cause)
	}
	return b.String()
}
