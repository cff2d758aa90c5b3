package conversation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a dollar amount typed by the user.
// Surrounding whitespace is ignored; NaN, infinities and hex floats are rejected.
func ParseAmount(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	// ParseFloat also takes hex floats ("0x1p3"); only decimal input is an amount
	digits := strings.TrimLeft(trimmed, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, trimmed)
	}

	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, trimmed)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidAmount, trimmed)
	}

	return amount, nil
}

// FormatAmount renders an amount the way it is echoed back to the user
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
