package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// CartRepository implements domain.CartRepository. Carts expire together with
// the session they belong to.
type CartRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCartRepository(client redis.Cmdable, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func (r *CartRepository) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	var cart domain.Cart
	if _, err := getJSON(ctx, r.client, cartKeyPrefix+sessionID, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (r *CartRepository) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	if cart.Empty() {
		return r.Clear(ctx, sessionID)
	}
	return setJSON(ctx, r.client, cartKeyPrefix+sessionID, cart, r.ttl)
}

func (r *CartRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to DEL cart: %w", err)
	}
	return nil
}
