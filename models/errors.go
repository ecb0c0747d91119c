package models

import "errors"

var (
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidSide     = errors.New("invalid side")
	ErrInvalidType     = errors.New("invalid order type")
	ErrMissingSymbol   = errors.New("symbol is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidPrice    = errors.New("price must be greater than 0")
	ErrPriceRequired   = errors.New("price is required for limit orders")
	ErrPriceForbidden  = errors.New("price must be empty for market, ioc and fok orders")
	ErrInvalidLevel    = errors.New("book level must be a [price, quantity] pair")
)
