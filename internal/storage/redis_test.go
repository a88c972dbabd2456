package storage

import (
	"context"
	"testing"
	"time"

	"cravecart/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestRedisStore_CartLinesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lines := []domain.CartLine{
		{CuisineID: "3", ItemID: "12", Name: "Masala Dosa", UnitPrice: 150, Quantity: 2, ImageURL: "http://img/12"},
		{CuisineID: "4", ItemID: "21", Name: "Biryani", UnitPrice: 249.5, Quantity: 1, ImageURL: "http://img/21"},
	}

	assert.NoError(t, store.SaveCartLines(ctx, lines))

	loaded, err := store.LoadCartLines(ctx)
	assert.NoError(t, err)
	assert.Equal(t, lines, loaded)
}

func TestRedisStore_LoadCartLinesMissingKey(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadCartLines(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_OrdersRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	orders := []domain.Order{
		{
			ID:       "order-1",
			PlacedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
			Items: []domain.OrderItem{
				{ID: "12", Name: "Masala Dosa", Price: "150.00", Quantity: 2, ImageURL: "http://img/12"},
			},
			TotalAmount: 315.0,
		},
		{ID: "order-0", PlacedAt: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC), TotalAmount: 84.0},
	}

	assert.NoError(t, store.SaveOrders(ctx, orders))

	loaded, err := store.LoadOrders(ctx)
	assert.NoError(t, err)
	assert.Equal(t, orders, loaded)
}

func TestRedisStore_LoadOrdersMissingKey(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadOrders(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
