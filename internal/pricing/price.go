package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPriceFormat means no numeric value could be extracted from a catalog
// price string. Items with unparsable prices must not enter the cart.
var ErrPriceFormat = errors.New("unrecognized price format")

var cleaner = strings.NewReplacer("₹", "", ",", "", " ", "")

// Parse extracts a numeric amount from a currency-formatted string such as
// "₹1,250.00". It strips the rupee glyph, thousands separators and
// whitespace first; if the result still does not parse, it falls back to
// keeping only digits and the decimal point.
func Parse(raw string) (float64, error) {
	cleaned := strings.TrimSpace(cleaner.Replace(raw))

	if price, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return price, nil
	}

	var digits strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
		}
	}

	if price, err := strconv.ParseFloat(digits.String(), 64); err == nil {
		return price, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrPriceFormat, raw)
}

// Rating parses a decimal rating string, treating anything unparsable as 0.
func Rating(raw string) float64 {
	rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return rating
}
