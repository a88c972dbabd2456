package orders

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cravecart/internal/domain"

	"github.com/google/uuid"
)

const (
	maxOrders = 3

	persistTimeout = 2 * time.Second
)

// Store persists the recent-orders list as one opaque record. Best-effort.
type Store interface {
	SaveOrders(ctx context.Context, orders []domain.Order) error
	LoadOrders(ctx context.Context) ([]domain.Order, error)
}

// Archive keeps completed orders long-term, beyond the bounded recent list.
type Archive interface {
	ArchiveOrder(ctx context.Context, order domain.Order) error
}

// History is the bounded recent-orders log, newest first, capacity 3.
type History struct {
	mu      sync.Mutex
	orders  []domain.Order
	store   Store
	archive Archive
}

// NewHistory creates a history backed by store; archive may be nil.
func NewHistory(store Store, archive Archive) *History {
	return &History{store: store, archive: archive}
}

// Hydrate loads persisted orders, truncating to capacity in case the store
// was inflated externally.
func (h *History) Hydrate(ctx context.Context) {
	if h.store == nil {
		return
	}

	orders, err := h.store.LoadOrders(ctx)
	if err != nil {
		log.Printf("orders: load failed: %v", err)
		return
	}
	if len(orders) > maxOrders {
		orders = orders[:maxOrders]
	}

	h.mu.Lock()
	h.orders = orders
	h.mu.Unlock()
}

// Record snapshots the cart lines into an immutable order, prepends it and
// evicts the oldest entry past capacity.
func (h *History) Record(lines []domain.CartLine, totalAmount float64) domain.Order {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ID:       line.ItemID,
			Name:     line.Name,
			Price:    fmt.Sprintf("%.2f", line.UnitPrice),
			Quantity: line.Quantity,
			ImageURL: line.ImageURL,
		})
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		PlacedAt:    time.Now(),
		Items:       items,
		TotalAmount: totalAmount,
	}

	h.mu.Lock()
	h.orders = append([]domain.Order{order}, h.orders...)
	if len(h.orders) > maxOrders {
		h.orders = h.orders[:maxOrders]
	}
	snapshot := make([]domain.Order, len(h.orders))
	copy(snapshot, h.orders)
	h.mu.Unlock()

	go h.persist(snapshot, order)

	return order
}

// Recent returns the stored orders, newest first.
func (h *History) Recent() []domain.Order {
	h.mu.Lock()
	defer h.mu.Unlock()

	orders := make([]domain.Order, len(h.orders))
	copy(orders, h.orders)
	return orders
}

func (h *History) persist(snapshot []domain.Order, latest domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if h.store != nil {
		if err := h.store.SaveOrders(ctx, snapshot); err != nil {
			log.Printf("orders: save failed: %v", err)
		}
	}
	if h.archive != nil {
		if err := h.archive.ArchiveOrder(ctx, latest); err != nil {
			log.Printf("orders: archive failed for %s: %v", latest.ID, err)
		}
	}
}
