package order

import (
	"fmt"
	"strings"

	"orderdesk/config"
	"orderdesk/models"
)

// Form is the order entry state as the user typed it. Values stay text
// until Build so that a half-typed form can be shown and corrected.
type Form struct {
	Symbol        string
	Side          string
	OrderType     models.OrderType
	Quantity      string
	Price         string
	PriceDisabled bool

	defaults config.FormDefaults
}

// NewForm returns a form holding defaults.
func NewForm(defaults config.FormDefaults) *Form {
	f := &Form{defaults: defaults}
	f.Reset()
	return f
}

// Reset restores every field to its default and enables the price field,
// whatever the default order type is.
func (f *Form) Reset() {
	f.Symbol = f.defaults.Symbol
	f.Side = f.defaults.Side
	f.OrderType = models.OrderTypeLimit
	if t, err := models.ParseOrderType(f.defaults.OrderType); err == nil {
		f.OrderType = t
	}
	f.Quantity = f.defaults.Quantity
	f.Price = f.defaults.Price
	f.PriceDisabled = false
}

// SelectOrderType switches the order type. Types that take no price disable
// the price field and clear it; limit enables it again.
func (f *Form) SelectOrderType(s string) error {
	t, err := models.ParseOrderType(s)
	if err != nil {
		return err
	}
	f.OrderType = t
	if t.RequiresPrice() {
		f.PriceDisabled = false
	} else {
		f.PriceDisabled = true
		f.Price = ""
	}
	return nil
}

// SetPrice fills the price field unless it is disabled.
func (f *Form) SetPrice(s string) error {
	if f.PriceDisabled {
		return fmt.Errorf("price is disabled for %s orders", f.OrderType)
	}
	f.Price = strings.TrimSpace(s)
	return nil
}

// Build turns the current fields into a request. The price is left out
// for every type other than limit, even if stale text is still in the field.
func (f *Form) Build() (models.OrderRequest, error) {
	req := models.OrderRequest{
		Symbol:    strings.TrimSpace(f.Symbol),
		OrderType: f.OrderType,
	}

	side, err := models.ParseSide(f.Side)
	if err != nil {
		return models.OrderRequest{}, err
	}
	req.Side = side

	qty, err := models.ParseNumber(f.Quantity)
	if err != nil {
		return models.OrderRequest{}, fmt.Errorf("quantity: %w", err)
	}
	req.Quantity = qty

	if !f.PriceDisabled && f.OrderType.RequiresPrice() && strings.TrimSpace(f.Price) != "" {
		price, err := models.ParseNumber(f.Price)
		if err != nil {
			return models.OrderRequest{}, fmt.Errorf("price: %w", err)
		}
		req.Price = &price
	}

	if err := req.Validate(); err != nil {
		return models.OrderRequest{}, err
	}
	return req, nil
}

// String summarises the form on one line.
func (f *Form) String() string {
	price := f.Price
	if f.PriceDisabled {
		price = "(disabled)"
	}
	return fmt.Sprintf("symbol=%s side=%s type=%s qty=%s price=%s",
		f.Symbol, f.Side, strings.ToUpper(string(f.OrderType)), f.Quantity, price)
}
