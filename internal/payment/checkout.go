package payment

import (
	"context"
	"log"
	"time"

	"cravecart/internal/domain"
)

const publishTimeout = 2 * time.Second

type Gateway interface {
	MakePayment(ctx context.Context, req domain.PaymentRequest) (string, error)
}

type CartLedger interface {
	Lines() []domain.CartLine
	GrandTotal() float64
	Clear()
}

type OrderRecorder interface {
	Record(lines []domain.CartLine, totalAmount float64) domain.Order
}

type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, event domain.OrderEvent) error
}

type Receipt struct {
	TxnRef string       `json:"txn_ref_no"`
	Order  domain.Order `json:"order"`
}

// Service runs the checkout flow: build the payload, submit it, and only on
// a confirmed success record the order and clear the cart.
type Service struct {
	gateway Gateway
	cart    CartLedger
	history OrderRecorder
	events  EventPublisher
}

// NewService wires the checkout flow; events may be nil.
func NewService(gateway Gateway, cart CartLedger, history OrderRecorder, events EventPublisher) *Service {
	return &Service{
		gateway: gateway,
		cart:    cart,
		history: history,
		events:  events,
	}
}

func (s *Service) Checkout(ctx context.Context) (Receipt, error) {
	lines := s.cart.Lines()

	req, err := Build(lines)
	if err != nil {
		return Receipt{}, err
	}
	grandTotal := s.cart.GrandTotal()

	txnRef, err := s.gateway.MakePayment(ctx, req)
	if err != nil {
		// The cart stays as it was; the user can retry.
		return Receipt{}, err
	}
	log.Printf("payment: success, txn_ref=%s", txnRef)

	order := s.history.Record(lines, grandTotal)
	s.cart.Clear()

	if s.events != nil {
		event := domain.OrderEvent{
			Type:        "order_completed",
			OrderID:     order.ID,
			TxnRef:      txnRef,
			TotalAmount: order.TotalAmount,
			TotalItems:  req.TotalItems,
			Timestamp:   order.PlacedAt,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := s.events.PublishOrderCompleted(ctx, event); err != nil {
				log.Printf("payment: event publish failed: %v", err)
			}
		}()
	}

	return Receipt{TxnRef: txnRef, Order: order}, nil
}
