package storage

import (
	"context"
	"encoding/json"
	"errors"

	"cravecart/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	cartKey   = "cart:lines"
	ordersKey = "orders:recent"
)

// RedisStore persists the cart line sequence and the recent-orders list as
// JSON blobs. Missing keys read back as empty, not as errors.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) SaveCartLines(ctx context.Context, lines []domain.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, cartKey, payload, 0).Err()
}

func (s *RedisStore) LoadCartLines(ctx context.Context) ([]domain.CartLine, error) {
	payload, err := s.Client.Get(ctx, cartKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisStore) SaveOrders(ctx context.Context, orders []domain.Order) error {
	payload, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, ordersKey, payload, 0).Err()
}

func (s *RedisStore) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	payload, err := s.Client.Get(ctx, ordersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []domain.Order
	if err := json.Unmarshal(payload, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
