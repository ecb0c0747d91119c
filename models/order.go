package models

import (
	"fmt"
	"strings"
)

// Side is the wire form of an order or aggressor side.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide accepts BUY/buy/Sell and so on.
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case SideBuy, SideSell:
		return side, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// OrderType is the wire form of an order type.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
	OrderTypeIOC    OrderType = "ioc"
	OrderTypeFOK    OrderType = "fok"
)

// ParseOrderType accepts any letter case.
func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToLower(strings.TrimSpace(s))); t {
	case OrderTypeLimit, OrderTypeMarket, OrderTypeIOC, OrderTypeFOK:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// RequiresPrice reports whether orders of this type carry a user price.
// Only limit orders rest on the book; the others execute in one matching pass.
func (t OrderType) RequiresPrice() bool { return t == OrderTypeLimit }

// OrderRequest is the body posted to the venue's order intake endpoint.
// Price is nil (encoded as null) for every type except limit.
type OrderRequest struct {
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	OrderType OrderType `json:"order_type"`
	Quantity  Number    `json:"quantity"`
	Price     *Number   `json:"price"`
}

// Validate checks the request against the venue's order type constraints.
func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return ErrMissingSymbol
	}
	if _, err := ParseSide(string(r.Side)); err != nil {
		return err
	}
	if _, err := ParseOrderType(string(r.OrderType)); err != nil {
		return err
	}
	if !r.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if r.OrderType.RequiresPrice() {
		if r.Price == nil || r.Price.Empty() {
			return ErrPriceRequired
		}
		if !r.Price.IsPositive() {
			return ErrInvalidPrice
		}
		return nil
	}
	if r.Price != nil {
		return ErrPriceForbidden
	}
	return nil
}
