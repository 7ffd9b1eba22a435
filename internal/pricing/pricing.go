// Package pricing maps ticket kinds to their price.  Amounts are kept as
// integer cents so totals never accumulate floating point error; Money
// renders with two decimal places for display.
package pricing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the ticket price category.
type Kind string

const (
	KindFull Kind = "full" // inteira
	KindHalf Kind = "half" // meia
)

// Money is an amount in cents.
type Money int64

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 { return int64(m) }

// String formats the amount as "34.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes money as a decimal number with two places so API
// clients receive 34.00 rather than 3400.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number such as 17 or 17.5 or 17.00.
func (m *Money) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	parsed, err := ParseMoney(n.String())
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney parses a decimal string with at most two fractional digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("pricing: empty amount")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("pricing: too many decimal places in %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseUint(whole, 10, 62)
	if err != nil {
		return 0, fmt.Errorf("pricing: invalid amount %q", s)
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("pricing: invalid amount %q", s)
	}
	v := int64(w)*100 + int64(f)
	if neg {
		v = -v
	}
	return Money(v), nil
}

var table = map[Kind]Money{
	KindFull: 3400,
	KindHalf: 1700,
}

// PriceFor returns the fixed price for a ticket kind.  Unknown kinds are
// priced as full; callers validate kinds with Valid before they reach here.
func PriceFor(k Kind) Money {
	if p, ok := table[k]; ok {
		return p
	}
	return table[KindFull]
}

// Valid reports whether k is a known ticket kind.
func (k Kind) Valid() bool {
	_, ok := table[k]
	return ok
}

// ParseKind normalises user input ("FULL", " half ") to a Kind.  The
// Portuguese labels used by the box office ("inteira", "meia") are accepted.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "inteira":
		return KindFull, true
	case "half", "meia":
		return KindHalf, true
	}
	return "", false
}
