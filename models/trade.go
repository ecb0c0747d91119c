package models

// Trade is an executed trade as pushed by the venue. AggressorSide keeps the
// text the venue sent so it can be shown verbatim.
type Trade struct {
	Price         Number `json:"price"`
	Quantity      Number `json:"quantity"`
	AggressorSide Side   `json:"aggressor_side"`
}

// TradeBatch is a sequence of trades, oldest first as received.
type TradeBatch []Trade
