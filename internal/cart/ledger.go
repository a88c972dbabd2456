package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"cravecart/internal/domain"
	"cravecart/internal/pricing"
)

const (
	cgstRate = 0.025
	sgstRate = 0.025

	persistTimeout = 2 * time.Second
)

// Store persists the full cart line sequence. Writes are best-effort; the
// in-memory lines stay authoritative when a save fails.
type Store interface {
	SaveCartLines(ctx context.Context, lines []domain.CartLine) error
	LoadCartLines(ctx context.Context) ([]domain.CartLine, error)
}

type Ledger struct {
	mu    sync.Mutex
	lines []domain.CartLine
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Hydrate loads previously saved lines. Called once at startup.
func (l *Ledger) Hydrate(ctx context.Context) {
	if l.store == nil {
		return
	}

	lines, err := l.store.LoadCartLines(ctx)
	if err != nil {
		log.Printf("cart: load failed: %v", err)
		return
	}

	l.mu.Lock()
	l.lines = lines
	l.mu.Unlock()
}

// AddItem merges into an existing line matched by item id or by display name
// (ids can change when the catalog language changes while names stay
// stable), otherwise parses the price and appends a new line. An unparsable
// price drops the add with a diagnostic only.
func (l *Ledger) AddItem(item domain.MenuItem, cuisineID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ItemID == item.ID || l.lines[i].Name == item.Name {
			l.lines[i].Quantity++
			log.Printf("cart: increased quantity for %q (id=%s) to %d", item.Name, item.ID, l.lines[i].Quantity)
			l.persistLocked()
			return
		}
	}

	price, err := pricing.Parse(item.Price)
	if err != nil {
		log.Printf("cart: not adding %q: %v", item.Name, err)
		return
	}

	l.lines = append(l.lines, domain.CartLine{
		CuisineID: cuisineID,
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: price,
		Quantity:  1,
		ImageURL:  item.ImageURL,
	})
	log.Printf("cart: added %q (id=%s) at %.2f", item.Name, item.ID, price)
	l.persistLocked()
}

func (l *Ledger) RemoveItem(itemID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.lines[:0]
	for _, line := range l.lines {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	l.lines = kept
	l.persistLocked()
}

// UpdateQuantity sets the quantity for an existing line; zero or negative
// removes the line. Updating an unknown item is a no-op, the caller is
// expected to have used AddItem first.
func (l *Ledger) UpdateQuantity(itemID string, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.lines {
		if l.lines[i].ItemID != itemID {
			continue
		}
		if quantity <= 0 {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			log.Printf("cart: removed item %s", itemID)
		} else {
			l.lines[i].Quantity = quantity
		}
		l.persistLocked()
		return
	}

	if quantity > 0 {
		log.Printf("cart: ignoring quantity update for unknown item %s", itemID)
	}
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
	l.persistLocked()
}

// Lines returns a copy in insertion order.
func (l *Ledger) Lines() []domain.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := make([]domain.CartLine, len(l.lines))
	copy(lines, l.lines)
	return lines
}

func (l *Ledger) Subtotal() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return subtotalOf(l.lines)
}

func (l *Ledger) CGST() float64 {
	return l.Subtotal() * cgstRate
}

func (l *Ledger) SGST() float64 {
	return l.Subtotal() * sgstRate
}

func (l *Ledger) GrandTotal() float64 {
	subtotal := l.Subtotal()
	return subtotal + subtotal*cgstRate + subtotal*sgstRate
}

// Totals recomputes every derived value from the current lines; nothing is
// cached between mutations.
func (l *Ledger) Totals() domain.CartTotals {
	subtotal := l.Subtotal()
	return domain.CartTotals{
		Subtotal:   subtotal,
		CGST:       subtotal * cgstRate,
		SGST:       subtotal * sgstRate,
		GrandTotal: subtotal + subtotal*cgstRate + subtotal*sgstRate,
	}
}

func subtotalOf(lines []domain.CartLine) float64 {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Total()
	}
	return subtotal
}

// persistLocked snapshots the lines and saves them without blocking the
// mutation. Callers must hold the mutex.
func (l *Ledger) persistLocked() {
	if l.store == nil {
		return
	}

	snapshot := make([]domain.CartLine, len(l.lines))
	copy(snapshot, l.lines)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := l.store.SaveCartLines(ctx, snapshot); err != nil {
			log.Printf("cart: save failed: %v", err)
		}
	}()
}
