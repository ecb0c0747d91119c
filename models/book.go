package models

import (
	"encoding/json"
	"fmt"
)

// BookLevel is one price level on one side of the book. Quantity is the
// absolute resting size at that price, not a delta.
type BookLevel struct {
	Price    Number
	Quantity Number
}

// NewBookLevel builds a level from two decimal literals.
func NewBookLevel(price, quantity string) (BookLevel, error) {
	p, err := ParseNumber(price)
	if err != nil {
		return BookLevel{}, fmt.Errorf("price: %w", err)
	}
	q, err := ParseNumber(quantity)
	if err != nil {
		return BookLevel{}, fmt.Errorf("quantity: %w", err)
	}
	return BookLevel{Price: p, Quantity: q}, nil
}

// UnmarshalJSON decodes the feed's [price, quantity] array form. Trailing
// elements beyond the first two are ignored.
func (l *BookLevel) UnmarshalJSON(data []byte) error {
	var pair []Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if len(pair) < 2 || pair[0].Empty() || pair[1].Empty() {
		return fmt.Errorf("%w: got %s", ErrInvalidLevel, data)
	}
	l.Price, l.Quantity = pair[0], pair[1]
	return nil
}

// MarshalJSON writes the level back in [price, quantity] form.
func (l BookLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Number{l.Price, l.Quantity})
}

// BookSnapshot is a full-depth view of both sides of the book. Bids are
// best-first (highest price first), asks best-first (lowest price first).
// A snapshot replaces the previous one; it is never merged.
type BookSnapshot struct {
	Symbol    string      `json:"symbol,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
}
