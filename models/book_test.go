package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSnapshotDecode(t *testing.T) {
	raw := `{"bids":[[100.5,2],[100.0,5]],"asks":[[101.0,3]],"symbol":"BTC-USDT","timestamp":"2024-01-01T00:00:00"}`
	var snap BookSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	require.Len(t, snap.Bids, 2)
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, "100.5", snap.Bids[0].Price.String())
	assert.Equal(t, "2", snap.Bids[0].Quantity.String())
	assert.Equal(t, "100.0", snap.Bids[1].Price.String())
	assert.Equal(t, "101.0", snap.Asks[0].Price.String())
	assert.Equal(t, "BTC-USDT", snap.Symbol)
}

func TestBookLevelRejectsShortPairs(t *testing.T) {
	var lvl BookLevel
	assert.ErrorIs(t, json.Unmarshal([]byte(`[100.5]`), &lvl), ErrInvalidLevel)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"price":1}`), &lvl), ErrInvalidLevel)
	assert.Error(t, json.Unmarshal([]byte(`[100.5, "x"]`), &lvl))
}

func TestBookLevelIgnoresExtraElements(t *testing.T) {
	var lvl BookLevel
	require.NoError(t, json.Unmarshal([]byte(`[1.5, 2, 7]`), &lvl))
	assert.Equal(t, "1.5", lvl.Price.String())
	assert.Equal(t, "2", lvl.Quantity.String())

	out, err := json.Marshal(lvl)
	require.NoError(t, err)
	assert.Equal(t, `[1.5,2]`, string(out))
}
