package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numPtr(s string) *Number {
	n := MustNumber(s)
	return &n
}

func TestParseSideAndType(t *testing.T) {
	side, err := ParseSide("BUY")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, side)
	_, err = ParseSide("hold")
	assert.ErrorIs(t, err, ErrInvalidSide)

	typ, err := ParseOrderType("FOK")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeFOK, typ)
	assert.False(t, typ.RequiresPrice())
	assert.True(t, OrderTypeLimit.RequiresPrice())
	_, err = ParseOrderType("stop")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestOrderRequestValidate(t *testing.T) {
	base := OrderRequest{Symbol: "BTC-USDT", Side: SideBuy, OrderType: OrderTypeLimit, Quantity: MustNumber("1"), Price: numPtr("50000")}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(r *OrderRequest)
		want   error
	}{
		{"missing symbol", func(r *OrderRequest) { r.Symbol = " " }, ErrMissingSymbol},
		{"bad side", func(r *OrderRequest) { r.Side = "hold" }, ErrInvalidSide},
		{"zero quantity", func(r *OrderRequest) { r.Quantity = MustNumber("0") }, ErrInvalidQuantity},
		{"limit without price", func(r *OrderRequest) { r.Price = nil }, ErrPriceRequired},
		{"negative price", func(r *OrderRequest) { r.Price = numPtr("-1") }, ErrInvalidPrice},
		{"market with price", func(r *OrderRequest) { r.OrderType = OrderTypeMarket }, ErrPriceForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			tc.mutate(&r)
			assert.ErrorIs(t, r.Validate(), tc.want)
		})
	}
}

func TestOrderRequestWireShape(t *testing.T) {
	req := OrderRequest{Symbol: "BTC-USDT", Side: SideSell, OrderType: OrderTypeIOC, Quantity: MustNumber("0.5")}
	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"BTC-USDT","side":"sell","order_type":"ioc","quantity":0.5,"price":null}`, string(out))
}
