package logger

import "context"

type contextKey int

const requestInfoKey contextKey = iota

// RequestInfo is the request-scoped data every event emitted while serving the request
// is enriched with. It is shared by pointer so middleware further down the chain can
// attach the actor after the outer middleware stored it.
type RequestInfo struct {
	ID            string
	Method        string
	Path          string
	UserAgent     string
	ClientAddress string
	Actor         *Actor
}

// WithRequest returns a child context carrying info.
func WithRequest(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey, info)
}

// RequestFromContext returns the RequestInfo in ctx, or nil outside a request.
func RequestFromContext(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(requestInfoKey).(*RequestInfo)
	return info
}

// SetActor attaches the authenticated actor to the current request.
func SetActor(ctx context.Context, actor Actor) {
	if info := RequestFromContext(ctx); info != nil {
		info.Actor = &actor
	}
}

// ActorFromContext returns the request's actor, or nil when unauthenticated.
func ActorFromContext(ctx context.Context) *Actor {
	if info := RequestFromContext(ctx); info != nil {
		return info.Actor
	}
	return nil
}

// ClientAddress returns the resolved client address, or "" outside a request.
func ClientAddress(ctx context.Context) string {
	if info := RequestFromContext(ctx); info != nil {
		return info.ClientAddress
	}
	return ""
}
