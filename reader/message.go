package reader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"orderdesk/models"
)

// ErrDecode marks a feed frame that could not be parsed. The frame is
// dropped and the connection stays open.
var ErrDecode = errors.New("feed message decode failed")

// Message is the decoded form of one feed frame: exactly one of
// BookUpdate, TradeUpdate or Unrecognized.
type Message interface {
	EventName() string
	isMessage()
}

// BookUpdate replaces both sides of the rendered book.
type BookUpdate struct {
	Snapshot models.BookSnapshot
}

// TradeUpdate carries new trades, oldest first.
type TradeUpdate struct {
	Batch models.TradeBatch
}

// Unrecognized is a well formed frame of neither known shape. Keys lists
// its top-level object keys (empty when the frame is not an object).
type Unrecognized struct {
	Keys []string
	Raw  []byte
}

func (BookUpdate) EventName() string   { return "book_update" }
func (TradeUpdate) EventName() string  { return "trade_update" }
func (Unrecognized) EventName() string { return "unrecognized" }

func (BookUpdate) isMessage()   {}
func (TradeUpdate) isMessage()  {}
func (Unrecognized) isMessage() {}

// Decode classifies a frame by shape. A frame carrying both bids and asks
// is a book update even when a trades key is present too; otherwise a
// trades key makes it a trade update. Null-valued keys count as absent.
func Decode(raw []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		if json.Valid(raw) {
			return Unrecognized{Raw: raw}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	has := func(key string) bool {
		v, ok := fields[key]
		return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
	}

	switch {
	case has("bids") && has("asks"):
		var snap models.BookSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("%w: book update: %v", ErrDecode, err)
		}
		if snap.Bids == nil {
			snap.Bids = []models.BookLevel{}
		}
		if snap.Asks == nil {
			snap.Asks = []models.BookLevel{}
		}
		return BookUpdate{Snapshot: snap}, nil
	case has("trades"):
		var batch models.TradeBatch
		if err := json.Unmarshal(fields["trades"], &batch); err != nil {
			return nil, fmt.Errorf("%w: trade update: %v", ErrDecode, err)
		}
		for i, t := range batch {
			if t.Price.Empty() || t.Quantity.Empty() {
				return nil, fmt.Errorf("%w: trade %d lacks price or quantity", ErrDecode, i)
			}
		}
		return TradeUpdate{Batch: batch}, nil
	default:
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Unrecognized{Keys: keys, Raw: raw}, nil
	}
}
