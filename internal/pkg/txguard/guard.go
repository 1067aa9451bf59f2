// Package txguard tracks the SQL transactions opened while serving a request so the
// outermost error boundary can roll them back.
package txguard

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// Rollbacker is satisfied by *sql.Tx.
type Rollbacker interface {
	Rollback() error
}

type guardKey struct{}

// Guard holds the transactions started under one request context.
type Guard struct {
	mu  sync.Mutex
	txs []Rollbacker
}

// WithGuard returns a child context carrying a new Guard.
func WithGuard(ctx context.Context) (context.Context, *Guard) {
	g := &Guard{}
	return context.WithValue(ctx, guardKey{}, g), g
}

// FromContext returns the Guard stored in ctx, or nil.
func FromContext(ctx context.Context) *Guard {
	g, _ := ctx.Value(guardKey{}).(*Guard)
	return g
}

// Track registers tx with the Guard in ctx. It is a no-op outside a guarded context.
func Track(ctx context.Context, tx Rollbacker) {
	if g := FromContext(ctx); g != nil {
		g.mu.Lock()
		g.txs = append(g.txs, tx)
		g.mu.Unlock()
	}
}

// Tracked returns the number of transactions registered so far.
func (g *Guard) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.txs)
}

// RollbackAll rolls back every tracked transaction. Transactions that were already
// committed or rolled back are skipped silently.
func (g *Guard) RollbackAll() error {
	g.mu.Lock()
	txs := g.txs
	g.txs = nil
	g.mu.Unlock()

	var errs []error
	for _, tx := range txs {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
