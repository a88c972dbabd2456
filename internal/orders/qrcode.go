package orders

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ReceiptQR encodes the receipt link for an order as a PNG QR code.
// Regenerated on demand, never stored.
func ReceiptQR(orderID string) ([]byte, error) {
	link := fmt.Sprintf("http://localhost/receipt.html?order_id=%s", orderID)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
