package entity

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"
)

// CartLine is a menu item snapshot with its quantity (always >= 1).
type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"qty"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines of a single vendor. Lines keep insertion order.
type Cart struct {
	Vendor *Restaurant
	Lines  []CartLine
}

// SelectVendor sets the vendor. Picking a different vendor empties the cart;
// the same vendor only refreshes the snapshot. Reports whether lines were dropped.
func (c *Cart) SelectVendor(v Restaurant) bool {
	cleared := false
	if c.Vendor == nil || c.Vendor.ID != v.ID {
		cleared = len(c.Lines) > 0
		c.Lines = nil
	}
	c.Vendor = &v

	return cleared
}

// ClearVendor drops the vendor and with it every line.
func (c *Cart) ClearVendor() {
	c.Vendor = nil
	c.Lines = nil
}

// Add increments the quantity of item, inserting it at quantity 1 when absent.
// The stored snapshot is refreshed with the newest item data.
func (c *Cart) Add(item MenuItem) int {
	if i := c.index(item.ID); i >= 0 {
		c.Lines[i].Item = item
		c.Lines[i].Quantity++

		return c.Lines[i].Quantity
	}

	c.Lines = append(c.Lines, CartLine{Item: item, Quantity: 1})

	return 1
}

// Remove decrements the quantity of id and deletes the line when it reaches zero.
// An absent id is a no-op. Reports whether anything changed.
func (c *Cart) Remove(id ID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}

	if c.Lines[i].Quantity <= 1 {
		c.Lines = slices.Delete(c.Lines, i, i+1)
	} else {
		c.Lines[i].Quantity--
	}

	return true
}

// Delete removes the line of id regardless of quantity.
func (c *Cart) Delete(id ID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Lines = slices.Delete(c.Lines, i, i+1)

	return true
}

// Empty drops every line and keeps the vendor.
func (c *Cart) Empty() {
	c.Lines = nil
}

// Quantity returns the quantity of id, zero when absent.
func (c Cart) Quantity(id ID) int {
	if i := c.index(id); i >= 0 {
		return c.Lines[i].Quantity
	}

	return 0
}

// Total is the exact sum of price times quantity.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}

	return total
}

// ItemCount sums the quantities.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}

	return count
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy that shares no memory with c.
func (c Cart) Clone() Cart {
	out := Cart{Lines: slices.Clone(c.Lines)}
	if c.Vendor != nil {
		v := *c.Vendor
		out.Vendor = &v
	}

	return out
}

// OrderRequest builds the order-creation body for the current lines.
func (c Cart) OrderRequest(deliveryAddress string) PlaceOrderRequest {
	req := PlaceOrderRequest{
		Items:           make([]PlaceOrderLine, 0, len(c.Lines)),
		TotalAmount:     json.Number(c.Total().String()),
		DeliveryAddress: deliveryAddress,
	}
	if c.Vendor != nil {
		req.RestaurantID = c.Vendor.ID
	}
	for _, l := range c.Lines {
		req.Items = append(req.Items, PlaceOrderLine{MenuItemID: l.Item.ID, Quantity: l.Quantity})
	}

	return req
}

func (c Cart) index(id ID) int {
	return slices.IndexFunc(c.Lines, func(l CartLine) bool { return l.Item.ID == id })
}
