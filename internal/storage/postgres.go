package storage

import (
	"context"
	"database/sql"
	"fmt"

	"cravecart/internal/domain"
)

// OrderArchive keeps every completed order in Postgres. The recent-orders
// list is capped at three; this is the long-term record.
type OrderArchive struct {
	DB *sql.DB
}

func NewOrderArchive(db *sql.DB) *OrderArchive {
	return &OrderArchive{DB: db}
}

func (a *OrderArchive) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			placed_at TIMESTAMPTZ NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders(id),
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			quantity INT NOT NULL,
			image_url TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := a.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (a *OrderArchive) ArchiveOrder(ctx context.Context, order domain.Order) error {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO orders (id, placed_at, total_amount) VALUES ($1, $2, $3)",
		order.ID, order.PlacedAt, order.TotalAmount); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, item_id, name, price, quantity, image_url) VALUES ($1, $2, $3, $4, $5, $6)",
			order.ID, item.ID, item.Name, item.Price, item.Quantity, item.ImageURL); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentArchived returns the latest archived orders without their items,
// mainly for inspection tooling.
func (a *OrderArchive) RecentArchived(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := a.DB.QueryContext(ctx, `
		SELECT id, placed_at, total_amount
		FROM orders
		ORDER BY placed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.PlacedAt, &order.TotalAmount); err != nil {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}
