package logger

import (
	"context"
	"time"
)

// Channel names one of the independently configured log pipelines.
type Channel string

const (
	ChannelGeneral  Channel = "general"
	ChannelRequests Channel = "requests"
	ChannelActions  Channel = "actions"
	ChannelAuth     Channel = "auth"
	ChannelErrors   Channel = "errors"
)

// Channels lists every channel the Router owns.
var Channels = []Channel{ChannelGeneral, ChannelRequests, ChannelActions, ChannelAuth, ChannelErrors}

// LoggerName is the name rendered in the "logger" field of a record.
func (c Channel) LoggerName() string {
	if c == ChannelGeneral {
		return "app"
	}
	return "app." + string(c)
}

// FileName is the name of the channel's active log file.
func (c Channel) FileName() string {
	if c == ChannelGeneral {
		return "app.log"
	}
	return string(c) + ".log"
}

func (c Channel) valid() bool {
	for _, ch := range Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// Status is the outcome of an action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Actor identifies the authenticated user behind an event.
type Actor struct {
	ID       int64
	Username string
	Role     string
}

// Entity references the business object an action touched.
type Entity struct {
	Type string
	ID   any
}

// Event is a single log record before formatting.
type Event struct {
	Time    time.Time
	Level   Level
	Channel Channel
	Message string

	Action string
	Status Status
	Actor  *Actor
	Entity *Entity

	ClientAddress string
	RequestID     string
	Method        string
	Path          string
	UserAgent     string

	StatusCode int
	DurationMS *int64

	Extra     map[string]any
	Exception string
}

// Millis converts d into the DurationMS representation.
func Millis(d time.Duration) *int64 {
	ms := d.Milliseconds()
	return &ms
}

// Enrich fills request-scoped fields the caller left empty from ctx.
func (e *Event) Enrich(ctx context.Context) {
	if ctx == nil {
		return
	}
	info := RequestFromContext(ctx)
	if info == nil {
		return
	}
	if e.ClientAddress == "" {
		e.ClientAddress = info.ClientAddress
	}
	if e.RequestID == "" {
		e.RequestID = info.ID
	}
	if e.Method == "" {
		e.Method = info.Method
	}
	if e.Path == "" {
		e.Path = info.Path
	}
	if e.UserAgent == "" {
		e.UserAgent = info.UserAgent
	}
	if e.Actor == nil && info.Actor != nil {
		actor := *info.Actor
		e.Actor = &actor
	}
}

// normalize enforces that an action always carries a status and that a failed
// action always explains itself.
func (e *Event) normalize() {
	if e.Action == "" {
		return
	}
	if e.Status == "" {
		if e.Level >= LevelWarning {
			e.Status = StatusError
		} else {
			e.Status = StatusSuccess
		}
	}
	if e.Status == StatusError && e.Exception == "" && e.Message == "" {
		e.Message = e.Action + " failed"
	}
}
