package project

import (
	"fmt"
	"math/big"
	"strings"
)

// MaxStageAmountBits is the width of the on-chain price and mint fee fields.
const MaxStageAmountBits = 80

// ParseUnits converts a decimal amount such as "0.05" into base units of a
// currency with the given number of decimals.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return new(big.Int), nil
	}

	whole, fraction, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(fraction) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	if strings.ContainsAny(whole+fraction, "+-") {
		return nil, fmt.Errorf("amount %q must be a non-negative decimal", amount)
	}

	digits := whole + fraction + strings.Repeat("0", int(decimals)-len(fraction))
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a decimal number", amount)
	}

	return value, nil
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}

	digits := value.String()
	if decimals == 0 {
		return digits
	}
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	split := len(digits) - int(decimals)
	whole, fraction := digits[:split], strings.TrimRight(digits[split:], "0")
	if fraction == "" {
		return whole
	}
	return whole + "." + fraction
}

// ParseStageAmount parses a stage price or mint fee and rejects base-unit
// values that do not fit the on-chain field.
func ParseStageAmount(amount string, decimals uint8) (*big.Int, error) {
	value, err := ParseUnits(amount, decimals)
	if err != nil {
		return nil, err
	}
	if value.BitLen() > MaxStageAmountBits {
		return nil, fmt.Errorf("amount %q is %s base units, above the uint%d limit", amount, value, MaxStageAmountBits)
	}

	return value, nil
}
