package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/V4T54L/leatherstore/internal/pkg/txguard"
)

// PanicError carries a recovered panic value and the stack it was raised on.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Recover installs a transaction guard for the request and turns panics into the
// internal error response, which rolls the guarded transactions back.
func Recover(responder Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := txguard.WithGuard(r.Context())
			r = r.WithContext(ctx)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				responder.Internal(w, r, &PanicError{Value: rec, Stack: debug.Stack()})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
