package logger

import (
	"context"
	"log/slog"
	"time"
)

// channelHandler adapts a Router channel to slog.Handler. Record attributes become the
// event's extra data, nested by group.
type channelHandler struct {
	router  *Router
	channel Channel
	attrs   map[string]any
	groups  []string
}

// Handler returns a slog.Handler that emits into ch.
func (r *Router) Handler(ch Channel) slog.Handler {
	return &channelHandler{router: r, channel: ch}
}

func (h *channelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.router.Enabled(h.channel, fromSlog(level))
}

func (h *channelHandler) Handle(ctx context.Context, rec slog.Record) error {
	extra := cloneAttrs(h.attrs)
	target := groupTarget(extra, h.groups)
	rec.Attrs(func(a slog.Attr) bool {
		addAttr(target, a)
		return true
	})
	if len(extra) == 0 {
		extra = nil
	}

	h.router.Emit(ctx, Event{
		Time:    rec.Time,
		Level:   fromSlog(rec.Level),
		Channel: h.channel,
		Message: rec.Message,
		Extra:   extra,
	})
	return nil
}

func (h *channelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = cloneAttrs(h.attrs)
	target := groupTarget(next.attrs, h.groups)
	for _, a := range attrs {
		addAttr(target, a)
	}
	return &next
}

func (h *channelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// cloneAttrs copies m deeply enough that nested group maps are not shared.
func cloneAttrs(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = cloneAttrs(nested)
		}
		out[k] = v
	}
	return out
}

// lazyGroup is a nested group map that is only created once an attribute lands in
// it, so open groups without attributes never reach the output.
type lazyGroup struct {
	parent *lazyGroup
	key    string
	m      map[string]any
}

func (g *lazyGroup) get() map[string]any {
	if g.m == nil {
		parent := g.parent.get()
		existing, ok := parent[g.key].(map[string]any)
		if !ok {
			existing = make(map[string]any)
			parent[g.key] = existing
		}
		g.m = existing
	}
	return g.m
}

func (g *lazyGroup) child(key string) *lazyGroup {
	return &lazyGroup{parent: g, key: key}
}

func groupTarget(root map[string]any, groups []string) *lazyGroup {
	target := &lazyGroup{m: root}
	for _, name := range groups {
		target = target.child(name)
	}
	return target
}

func addAttr(target *lazyGroup, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		dst := target
		if a.Key != "" {
			dst = target.child(a.Key)
		}
		for _, ga := range group {
			addAttr(dst, ga)
		}
	case slog.KindTime:
		target.get()[a.Key] = a.Value.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindDuration:
		target.get()[a.Key] = a.Value.Duration().String()
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			target.get()[a.Key] = err.Error()
			return
		}
		target.get()[a.Key] = a.Value.Any()
	default:
		target.get()[a.Key] = a.Value.Any()
	}
}
