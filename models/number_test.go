package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberKeepsLiteral(t *testing.T) {
	for _, lit := range []string{"100.0", "100.5", "2", "0.00000001", "1e3"} {
		n, err := ParseNumber(lit)
		require.NoError(t, err, lit)
		assert.Equal(t, lit, n.String())
	}
}

func TestParseNumberRejectsGarbage(t *testing.T) {
	for _, lit := range []string{"", "  ", "abc", "1.2.3"} {
		_, err := ParseNumber(lit)
		assert.ErrorIs(t, err, ErrInvalidNumber, lit)
	}
}

func TestNumberEqualIsNumeric(t *testing.T) {
	assert.True(t, MustNumber("100.0").Equal(MustNumber("100")))
	assert.False(t, MustNumber("100.1").Equal(MustNumber("100")))
}

func TestNumberUnmarshal(t *testing.T) {
	var got struct {
		A Number  `json:"a"`
		B Number  `json:"b"`
		C *Number `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 100.0, "b": "0.10", "c": null}`), &got))
	assert.Equal(t, "100.0", got.A.String())
	assert.Equal(t, "0.10", got.B.String())
	assert.Nil(t, got.C)

	var bad Number
	assert.ErrorIs(t, json.Unmarshal([]byte(`"x"`), &bad), ErrInvalidNumber)
}

func TestNumberMarshalFallsBackToCanonical(t *testing.T) {
	out, err := json.Marshal(MustNumber("+1.50"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(out))

	out, err = json.Marshal(Number{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
