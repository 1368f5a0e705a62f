package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fashionmart/storefront-api/models"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps per-session state that is not worth a table: the cart
type SessionStore interface {
	// GetCart returns the session's cart, or an empty cart if none is stored
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)

	// SaveCart stores the cart if it is dirty and clears the dirty flag
	SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error

	// ClearCart drops the stored cart
	ClearCart(ctx context.Context, sessionID string) error
}

var sessionStoreInstance SessionStore

// GetSessionStore returns the initialized session store
func GetSessionStore() SessionStore {
	return sessionStoreInstance
}

// SetSessionStore sets the session store instance
func SetSessionStore(store SessionStore) {
	sessionStoreInstance = store
}

// RedisSessionStore keeps carts in Redis with a sliding expiry
type RedisSessionStore struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisSessionStore connects to the Redis server named by a redis:// URL
func NewRedisSessionStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &RedisSessionStore{client: client, ttl: ttl, namespace: "fashionmart"}, nil
}

func (r *RedisSessionStore) cartKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:cart", r.namespace, sessionID)
}

// GetCart loads the cart and extends the session expiry
func (r *RedisSessionStore) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	raw, err := r.client.GetEx(ctx, r.cartKey(sessionID), r.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	cart := models.NewCart()
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = make(map[uint]models.CartLine)
	}
	return cart, nil
}

// SaveCart writes a dirty cart
func (r *RedisSessionStore) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	if cart == nil || !cart.Dirty {
		return nil
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, r.cartKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	cart.Dirty = false
	return nil
}

// ClearCart deletes the stored cart
func (r *RedisSessionStore) ClearCart(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool
func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}
