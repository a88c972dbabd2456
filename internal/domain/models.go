package domain

import (
	"math"
	"time"
)

type MenuItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
}

type Cuisine struct {
	ID       string     `json:"cuisine_id"`
	Name     string     `json:"cuisine_name"`
	ImageURL string     `json:"cuisine_image_url"`
	Items    []MenuItem `json:"items"`
}

type CartLine struct {
	CuisineID string  `json:"cuisine_id"`
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

func (l CartLine) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// UnitPriceAsInt rounds only for presentation and wire payloads; the stored
// price stays a float.
func (l CartLine) UnitPriceAsInt() int {
	return int(math.Round(l.UnitPrice))
}

type CartTotals struct {
	Subtotal   float64 `json:"subtotal"`
	CGST       float64 `json:"cgst"`
	SGST       float64 `json:"sgst"`
	GrandTotal float64 `json:"grand_total"`
}

type OrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

type Order struct {
	ID          string      `json:"id"`
	PlacedAt    time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
}

type PaymentLine struct {
	CuisineID int `json:"cuisine_id"`
	ItemID    int `json:"item_id"`
	ItemPrice int `json:"item_price"`
	Quantity  int `json:"item_quantity"`
}

type PaymentRequest struct {
	TotalAmount string        `json:"total_amount"`
	TotalItems  int           `json:"total_items"`
	Data        []PaymentLine `json:"data"`
}

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	TxnRef      string    `json:"txn_ref_no"`
	TotalAmount float64   `json:"total_amount"`
	TotalItems  int       `json:"total_items"`
	Timestamp   time.Time `json:"timestamp"`
}
