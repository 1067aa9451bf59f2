package logger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingEmitter) Emit(ctx context.Context, e Event) {
	e.Enrich(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestActionLogger_PerformSuccess(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)

	err := actions.Perform(context.Background(), Action{
		Name:       "product_update",
		EntityType: "product",
		EntityID:   int64(9),
		Extra:      map[string]any{"name": "Belt"},
	}, func(ctx context.Context, o *Outcome) error {
		o.Set("price", "120.00")
		return nil
	})

	require.NoError(t, err)
	require.Len(t, emitter.events, 1)
	e := emitter.events[0]
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, ChannelActions, e.Channel)
	assert.Equal(t, "product_update", e.Action)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.Equal(t, &Entity{Type: "product", ID: int64(9)}, e.Entity)
	assert.Equal(t, map[string]any{"name": "Belt", "price": "120.00"}, e.Extra)
	assert.Equal(t, "product_update completed", e.Message)
}

func TestActionLogger_PerformDoesNotMutateCallerExtra(t *testing.T) {
	actions := NewActionLogger(&recordingEmitter{})
	extra := map[string]any{"a": 1}

	_ = actions.Perform(context.Background(), Action{Name: "x", Extra: extra}, func(ctx context.Context, o *Outcome) error {
		o.Set("b", 2)
		return nil
	})

	assert.Equal(t, map[string]any{"a": 1}, extra)
}

func TestActionLogger_PerformLateBinding(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)

	_ = actions.Perform(context.Background(), Action{Name: "user_login", Channel: ChannelAuth}, func(ctx context.Context, o *Outcome) error {
		o.SetEntity("user", int64(1))
		o.SetActor(Actor{ID: 1, Username: "alice"})
		o.SetMessage("user logged in")
		return nil
	})

	require.Len(t, emitter.events, 1)
	e := emitter.events[0]
	assert.Equal(t, ChannelAuth, e.Channel)
	assert.Equal(t, "alice", e.Actor.Username)
	assert.Equal(t, "user logged in", e.Message)
	assert.Equal(t, int64(1), e.Entity.ID)
}

func TestActionLogger_PerformErrorPropagatesUnchanged(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)
	boom := errors.New("duplicate key value violates unique constraint")

	err := actions.Perform(context.Background(), Action{Name: "category_create"}, func(ctx context.Context, o *Outcome) error {
		return boom
	})

	assert.Same(t, boom, err)
	require.Len(t, emitter.events, 1)
	e := emitter.events[0]
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, StatusError, e.Status)
	assert.Equal(t, "category_create failed: duplicate key value violates unique constraint", e.Message)
	assert.Contains(t, e.Exception, "duplicate key")
}

func TestActionLogger_PerformRefusal(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)
	inUse := errors.New("category has products")

	err := actions.Perform(context.Background(), Action{Name: "category_delete", EntityType: "category", EntityID: int64(4)},
		func(ctx context.Context, o *Outcome) error {
			return Refuse("category_in_use", inUse)
		})

	require.ErrorIs(t, err, inUse)
	require.Len(t, emitter.events, 1)
	e := emitter.events[0]
	assert.Equal(t, LevelWarning, e.Level)
	assert.Equal(t, StatusError, e.Status)
	assert.Equal(t, "category_in_use", e.Extra["reason"])
	assert.Empty(t, e.Exception)
	assert.Equal(t, "category_delete rejected: category_in_use", e.Message)

	assert.NoError(t, Refuse("anything", nil))
}

func TestActionLogger_PerformPanicIsLoggedAndReraised(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)

	assert.PanicsWithValue(t, "nil map write", func() {
		_ = actions.Perform(context.Background(), Action{Name: "order_create"}, func(ctx context.Context, o *Outcome) error {
			panic("nil map write")
		})
	})

	require.Len(t, emitter.events, 1)
	e := emitter.events[0]
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, StatusError, e.Status)
	assert.Contains(t, e.Exception, "panic: nil map write")
	assert.Contains(t, e.Exception, "goroutine")
}

func TestActionLogger_UsesRequestActor(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)
	ctx := WithRequest(context.Background(), &RequestInfo{ClientAddress: "10.0.0.1"})
	SetActor(ctx, Actor{ID: 2, Username: "manager"})

	_ = actions.Perform(ctx, Action{Name: "order_status_update"}, func(ctx context.Context, o *Outcome) error { return nil })

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "manager", emitter.events[0].Actor.Username)
	assert.Equal(t, "10.0.0.1", emitter.events[0].ClientAddress)
}

func TestActionLogger_Reject(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)

	actions.Reject(context.Background(), Action{Name: "user_login", Channel: ChannelAuth, Extra: map[string]any{"username": "bob"}}, "account_deactivated")

	require.Len(t, emitter.events, 1)
	e := emitter.events[0]
	assert.Equal(t, LevelWarning, e.Level)
	assert.Equal(t, ChannelAuth, e.Channel)
	assert.Equal(t, StatusError, e.Status)
	assert.Equal(t, map[string]any{"username": "bob", "reason": "account_deactivated"}, e.Extra)
	assert.Equal(t, "user_login rejected: account_deactivated", e.Message)
}

func TestActionLogger_Fail(t *testing.T) {
	emitter := &recordingEmitter{}
	actions := NewActionLogger(emitter)

	actions.Fail(context.Background(), Action{Name: "user_login", Channel: ChannelAuth}, errors.New("redis down"))

	require.Len(t, emitter.events, 1)
	assert.Equal(t, LevelError, emitter.events[0].Level)
	assert.Equal(t, "user_login failed: redis down", emitter.events[0].Message)
}

// The registration payload reaches the actions file with the password masked.
func TestActionLogger_ThroughRouterMasksPassword(t *testing.T) {
	r, dir := setupRouter(t, nil)
	actions := NewActionLogger(r)

	err := actions.Perform(context.Background(), Action{
		Name:  "user_register",
		Extra: map[string]any{"password": "secret123", "email": "a@b.com"},
	}, func(ctx context.Context, o *Outcome) error { return nil })
	require.NoError(t, err)

	records := decodeLines(t, filepath.Join(dir, "actions.log"))
	require.Len(t, records, 1)
	assert.Equal(t, "***MASKED***", records[0]["extra"].(map[string]any)["password"])
	assert.Equal(t, "a@b.com", records[0]["extra"].(map[string]any)["email"])
}
