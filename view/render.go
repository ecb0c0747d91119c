package view

import (
	"fmt"

	"orderdesk/models"
)

const (
	NoOrdersRow = "No orders"
	NoTradesRow = "No trades yet"
)

// BookRow formats one level with the venue's literals untouched.
func BookRow(level models.BookLevel) string {
	return fmt.Sprintf("Price: %s, Quantity: %s", level.Price, level.Quantity)
}

// TradeRow formats one trade with the venue's literals untouched.
func TradeRow(trade models.Trade) string {
	return fmt.Sprintf("Trade: %s @ %s (Side: %s)", trade.Quantity, trade.Price, trade.AggressorSide)
}

// RenderSide replaces the list content with one row per level in the order
// given, or with the placeholder when there are no levels. Sorting is the
// venue's job.
func RenderSide(list *List, levels []models.BookLevel) {
	list.Clear()
	if len(levels) == 0 {
		list.Append(NoOrdersRow)
		return
	}
	for _, level := range levels {
		list.Append(BookRow(level))
	}
}

// RenderTrades puts the batch on top of the list, newest first. An empty
// batch only shows the placeholder on a list that has never had rows.
func RenderTrades(list *List, batch models.TradeBatch) {
	if len(batch) == 0 {
		if list.Len() == 0 {
			list.Append(NoTradesRow)
		}
		return
	}
	if list.ShowsOnly(NoTradesRow) {
		list.Clear()
	}
	for _, trade := range batch {
		list.Prepend(TradeRow(trade))
	}
}
