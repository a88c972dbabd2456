package payment

import (
	"errors"
	"fmt"
	"strconv"

	"cravecart/internal/domain"
)

const (
	cgstRate = 0.025
	sgstRate = 0.025
)

// ErrEmptyCart blocks payment submission for an empty line set.
var ErrEmptyCart = errors.New("cart is empty")

// Build transforms cart lines into the provider's payment payload. The tax
// formula deliberately mirrors the cart ledger's and must stay identical.
func Build(lines []domain.CartLine) (domain.PaymentRequest, error) {
	if len(lines) == 0 {
		return domain.PaymentRequest{}, ErrEmptyCart
	}

	totalItems := 0
	subtotal := 0.0
	for _, line := range lines {
		totalItems += line.Quantity
		subtotal += line.Total()
	}

	grandTotal := subtotal + subtotal*cgstRate + subtotal*sgstRate

	data := make([]domain.PaymentLine, 0, len(lines))
	for _, line := range lines {
		// The provider expects numeric ids; non-numeric ones degrade to 0.
		cuisineID, _ := strconv.Atoi(line.CuisineID)
		itemID, _ := strconv.Atoi(line.ItemID)

		data = append(data, domain.PaymentLine{
			CuisineID: cuisineID,
			ItemID:    itemID,
			ItemPrice: line.UnitPriceAsInt(),
			Quantity:  line.Quantity,
		})
	}

	return domain.PaymentRequest{
		TotalAmount: fmt.Sprintf("%.2f", grandTotal),
		TotalItems:  totalItems,
		Data:        data,
	}, nil
}
