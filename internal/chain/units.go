package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

func unitScale(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ParseUnits converts a decimal string such as "10" or "0.5" to base units.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	r.Mul(r, new(big.Rat).SetInt(unitScale(decimals)))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FormatFixed renders raw base units with exactly places fraction digits,
// rounding half away from zero.
func FormatFixed(raw *big.Int, decimals uint8, places int) string {
	if raw == nil {
		raw = new(big.Int)
	}
	return new(big.Rat).SetFrac(raw, unitScale(decimals)).FloatString(places)
}

// FormatGrouped renders raw base units with thousands separators and at most
// maxFrac fraction digits, dropping trailing zeros: 8004e18 -> "8,004".
func FormatGrouped(raw *big.Int, decimals uint8, maxFrac int) string {
	s := FormatFixed(raw, decimals, maxFrac)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	n, _ := new(big.Int).SetString(intPart, 10)
	out := humanize.BigComma(n)
	if frac != "" {
		out += "." + frac
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out
}
