package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a decimal value that remembers the literal it was built from.
// Prices and quantities are displayed exactly as the venue (or the user)
// wrote them, so 100.0 stays "100.0" instead of being normalised to "100".
type Number struct {
	lit string
	dec decimal.Decimal
}

// ParseNumber parses a decimal literal. Surrounding whitespace is ignored.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return Number{lit: s, dec: d}, nil
}

// MustNumber is ParseNumber for literals known to be valid, mostly in tests.
func MustNumber(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the literal verbatim.
func (n Number) String() string { return n.lit }

// Decimal returns the numeric value.
func (n Number) Decimal() decimal.Decimal { return n.dec }

// Empty reports whether n holds no value.
func (n Number) Empty() bool { return n.lit == "" }

// IsPositive reports whether n is set and strictly greater than zero.
func (n Number) IsPositive() bool { return !n.Empty() && n.dec.IsPositive() }

// Equal compares numerically, so "100.0" equals "100".
func (n Number) Equal(o Number) bool { return n.dec.Equal(o.dec) }

// MarshalJSON writes the value as a bare JSON number. Literals that are
// valid decimals but not valid JSON numbers (e.g. "+1", ".5") fall back to
// the canonical decimal form.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.Empty() {
		return []byte("null"), nil
	}
	if json.Valid([]byte(n.lit)) {
		return []byte(n.lit), nil
	}
	return []byte(n.dec.String()), nil
}

// UnmarshalJSON accepts JSON numbers and quoted decimal strings, the latter
// being common on venues that avoid float precision loss.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	lit := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &lit); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidNumber, err)
		}
	}
	parsed, err := ParseNumber(lit)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
