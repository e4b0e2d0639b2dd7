package utils

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/holiman/uint256"
)

// ErrInvalidAmount is wrapped by every ParseUnits failure
var ErrInvalidAmount = errors.New("invalid amount")

var decimalLiteral = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?$`)

// ParseUnits converts a human readable decimal (e.g. "0.01") into an integer amount
// of the smallest unit, scaled by 10^decimals. The conversion is exact: literals
// with more fractional digits than decimals are rejected instead of truncated, and
// the result must fit in a uint256.
func ParseUnits(value string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("%w: negative decimals %d", ErrInvalidAmount, decimals)
	}

	match := decimalLiteral.FindStringSubmatch(value)
	if match == nil {
		return nil, fmt.Errorf("%w: %q is not a non-negative decimal number", ErrInvalidAmount, value)
	}

	whole, fraction := match[1], match[2]
	if len(fraction) > decimals {
		return nil, fmt.Errorf("%w: %q has %d fractional digits, at most %d are representable", ErrInvalidAmount, value, len(fraction), decimals)
	}
	fraction += strings.Repeat("0", decimals-len(fraction))

	amount, ok := new(big.Int).SetString(whole+fraction, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	if _, overflow := uint256.FromBig(amount); overflow {
		return nil, fmt.Errorf("%w: %q does not fit in uint256", ErrInvalidAmount, value)
	}

	return amount, nil
}

// FormatUnits renders amount / 10^decimals without losing precision.
// Trailing fractional zeros are dropped, so 10^16 with 18 decimals is "0.01".
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, remainder := new(big.Int).QuoRem(abs, divisor, new(big.Int))
	if remainder.Sign() == 0 {
		return sign + whole.String()
	}

	fraction := remainder.String()
	fraction = strings.Repeat("0", decimals-len(fraction)) + fraction
	fraction = strings.TrimRight(fraction, "0")

	return sign + whole.String() + "." + fraction
}
