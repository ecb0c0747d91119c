package view

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenDraw(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf, false)

	trades := make([]string, 30)
	for i := range trades {
		trades[i] = fmt.Sprintf("trade-%02d", i)
	}
	require.NoError(t, s.Draw(Frame{
		Title:  "orderdesk BTC-USDT",
		Feed:   "live",
		Bids:   []string{"Price: 100.5, Quantity: 2", "Price: 100.0, Quantity: 5"},
		Asks:   []string{"Price: 101.0, Quantity: 3"},
		Trades: trades,
		Form:   "symbol=BTC-USDT",
	}))

	out := buf.String()
	assert.NotContains(t, out, clearScreen)
	assert.Contains(t, out, "feed: live")
	assert.Contains(t, out, "Price: 100.0, Quantity: 5")
	assert.Contains(t, out, "trade-19")
	assert.NotContains(t, out, "trade-20")
	assert.True(t, strings.HasSuffix(out, "> "))

	lines := strings.Split(out, "\n")
	var bookLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "Price: 100.5") {
			bookLine = l
		}
	}
	assert.Contains(t, bookLine, "Price: 101.0, Quantity: 3", "bids and asks share a line")
}

func TestScreenKeepsLatestNotices(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf, true)
	for i := 0; i < keptNotices+2; i++ {
		s.Notify(Notice{Level: LevelInfo, Text: fmt.Sprintf("n%d", i)})
	}
	notices := s.Notices()
	require.Len(t, notices, keptNotices)
	assert.Equal(t, "n2", notices[0].Text)

	buf.Reset()
	require.NoError(t, s.Draw(Frame{}))
	assert.True(t, strings.HasPrefix(buf.String(), clearScreen))
	assert.Contains(t, buf.String(), "[info] n6")
}
