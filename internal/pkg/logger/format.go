package logger

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Format selects the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatAuto Format = "auto"
)

// NotAvailable is rendered when a request-scoped value is missing.
const NotAvailable = "N/A"

const (
	jsonTimeLayout = "2006-01-02T15:04:05.000000Z07:00"
	textTimeLayout = "2006-01-02 15:04:05"
)

// ResolveFormat turns the configured mode into a concrete encoding. "auto" selects
// JSON everywhere except development.
func ResolveFormat(mode string, development bool) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(mode))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	case FormatAuto, "":
		if development {
			return FormatText, nil
		}
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown log format %q", mode)
}

// Formatter renders an Event as a single record without a trailing newline.
type Formatter interface {
	Format(e *Event) string
}

// NewFormatter returns the Formatter for f. Anything but FormatText yields JSON.
func NewFormatter(f Format) Formatter {
	if f == FormatText {
		return TextFormatter{}
	}
	return JSONFormatter{}
}

// JSONFormatter renders one JSON object per event. Absent optional fields are omitted.
type JSONFormatter struct{}

type jsonRecord struct {
	Timestamp     string         `json:"timestamp"`
	Level         string         `json:"level"`
	Logger        string         `json:"logger"`
	Message       string         `json:"message"`
	ClientAddress string         `json:"client_address"`
	RequestID     string         `json:"request_id,omitempty"`
	Method        string         `json:"method,omitempty"`
	Path          string         `json:"path,omitempty"`
	UserAgent     string         `json:"user_agent,omitempty"`
	UserID        *int64         `json:"user_id,omitempty"`
	Username      string         `json:"username,omitempty"`
	Action        string         `json:"action,omitempty"`
	Status        Status         `json:"status,omitempty"`
	DurationMS    *int64         `json:"duration_ms,omitempty"`
	StatusCode    int            `json:"status_code,omitempty"`
	EntityType    string         `json:"entity_type,omitempty"`
	EntityID      any            `json:"entity_id,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
	Exception     string         `json:"exception,omitempty"`
}

func (JSONFormatter) Format(e *Event) string {
	rec := jsonRecord{
		Timestamp:     e.Time.UTC().Format(jsonTimeLayout),
		Level:         e.Level.String(),
		Logger:        e.Channel.LoggerName(),
		Message:       e.Message,
		ClientAddress: orNotAvailable(e.ClientAddress),
		RequestID:     e.RequestID,
		Method:        e.Method,
		Path:          e.Path,
		UserAgent:     e.UserAgent,
		Action:        e.Action,
		Status:        e.Status,
		DurationMS:    e.DurationMS,
		StatusCode:    e.StatusCode,
		Extra:         e.Extra,
		Exception:     e.Exception,
	}
	if e.Actor != nil {
		id := e.Actor.ID
		rec.UserID = &id
		rec.Username = e.Actor.Username
	}
	if e.Entity != nil {
		rec.EntityType = e.Entity.Type
		rec.EntityID = e.Entity.ID
	}

	out, err := encodeJSON(rec)
	if err != nil {
		// Values in extra that cannot be encoded (funcs, channels, cycles) are
		// replaced by their printed form.
		rec.Extra = map[string]any{"unencodable": fmt.Sprintf("%v", e.Extra)}
		if out, err = encodeJSON(rec); err != nil {
			rec.Extra = nil
			out, _ = encodeJSON(rec)
		}
	}
	return out
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// TextFormatter renders a human-readable line built from fixed-order fragments.
type TextFormatter struct{}

func (TextFormatter) Format(e *Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s - %s - [IP: %s]",
		e.Time.Format(textTimeLayout), e.Channel.LoggerName(), e.Level, orNotAvailable(e.ClientAddress))

	if e.Actor != nil {
		fmt.Fprintf(&b, " - User: %s (ID: %d)", orNotAvailable(e.Actor.Username), e.Actor.ID)
	}
	if e.Action != "" {
		fmt.Fprintf(&b, " - Action: %s", e.Action)
	}
	if e.Status != "" {
		fmt.Fprintf(&b, " - Status: %s", e.Status)
	}
	if e.DurationMS != nil {
		fmt.Fprintf(&b, " - Duration: %dms", *e.DurationMS)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " - Status Code: %d", e.StatusCode)
	}
	if e.Entity != nil && e.Entity.Type != "" && e.Entity.ID != nil {
		fmt.Fprintf(&b, " - %s: %v", e.Entity.Type, e.Entity.ID)
	}
	fmt.Fprintf(&b, " - %s", e.Message)

	if e.Exception != "" {
		b.WriteByte('\n')
		b.WriteString(e.Exception)
	}
	return b.String()
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
