package mocks

import (
	"context"

	"cravecart/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

type CartStore struct {
	mock.Mock
}

func (m *CartStore) SaveCartLines(ctx context.Context, lines []domain.CartLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *CartStore) LoadCartLines(ctx context.Context) ([]domain.CartLine, error) {
	args := m.Called(ctx)
	var lines []domain.CartLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.CartLine)
	}
	return lines, args.Error(1)
}

type OrderStore struct {
	mock.Mock
}

func (m *OrderStore) SaveOrders(ctx context.Context, orders []domain.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

func (m *OrderStore) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

type OrderArchive struct {
	mock.Mock
}

func (m *OrderArchive) ArchiveOrder(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type Gateway struct {
	mock.Mock
}

func (m *Gateway) MakePayment(ctx context.Context, req domain.PaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishOrderCompleted(ctx context.Context, event domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
