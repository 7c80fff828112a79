package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses user price text. Surrounding spaces are ignored; the
// rest must be a finite decimal number ("12.99", "-3", "1e2").
func ParsePrice(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidPrice, text)
	}
	return f, nil
}

// FormatPrice renders the shortest decimal form of price, keeping one
// fractional digit for whole amounts: 1.5 -> "1.5", 10 -> "10.0".
func FormatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") && !math.IsInf(price, 0) && !math.IsNaN(price) {
		s += ".0"
	}
	return s
}
