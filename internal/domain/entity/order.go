package entity

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. The server owns transition validity.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusProgression is the usual forward order of the non-terminal states.
var statusProgression = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusAssigned,
	OrderStatusPickedUp,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
}

var statusMessages = map[OrderStatus]string{
	OrderStatusConfirmed: "Your order has been confirmed! 🎉",
	OrderStatusPreparing: "Your order is being prepared 👨‍🍳",
	OrderStatusReady:     "Your order is ready for pickup! 📦",
	OrderStatusPickedUp:  "Your order has been picked up! 🛵",
	OrderStatusOnTheWay:  "Your order is on the way! 🚀",
	OrderStatusDelivered: "Your order has been delivered! ✅",
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one the API knows.
func (s OrderStatus) IsValid() bool {
	return s == OrderStatusCancelled || slices.Contains(statusProgression, s)
}

// IsTerminal reports whether no further transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsForward reports whether next follows s in the usual progression. Cancellation
// counts as forward from pending and confirmed. Unknown states are never forward.
// This is informational only: regressive pushes are still applied.
func (s OrderStatus) IsForward(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusConfirmed
	}

	from := slices.Index(statusProgression, s)
	to := slices.Index(statusProgression, next)

	return from >= 0 && to > from
}

// UpdateMessage is the toast text shown when an order reaches this status.
func (s OrderStatus) UpdateMessage(orderID ID) string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}

	return fmt.Sprintf("Order #%s status updated to %s", orderID, s)
}

// UpdateToastType is success for a delivery and info otherwise.
func (s OrderStatus) UpdateToastType() ToastType {
	if s == OrderStatusDelivered {
		return ToastSuccess
	}

	return ToastInfo
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	MenuItemID ID              `json:"menu_item_id"`
	Name       string          `json:"name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// Order is the client view of a marketplace order.
type Order struct {
	ID              ID              `json:"id"`
	UserID          ID              `json:"user_id,omitempty"`
	RestaurantID    ID              `json:"restaurant_id,omitempty"`
	RestaurantName  string          `json:"restaurant_name,omitempty"`
	RiderID         ID              `json:"rider_id,omitempty"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Key is the identifier used by keyed collections.
func (o Order) Key() ID {
	return o.ID
}

// UnmarshalJSON accepts either `id` or `_id`.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	if err := json.Unmarshal(data, (*plain)(o)); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}
	if o.ID.IsZero() {
		o.ID = legacyID(data)
	}

	return nil
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)

	return o
}

// Equal reports whether o and other carry the same data. Amounts and times
// compare by value.
func (o Order) Equal(other Order) bool {
	return o.ID == other.ID &&
		o.UserID == other.UserID &&
		o.RestaurantID == other.RestaurantID &&
		o.RestaurantName == other.RestaurantName &&
		o.RiderID == other.RiderID &&
		o.Status == other.Status &&
		o.TotalAmount.Equal(other.TotalAmount) &&
		o.DeliveryAddress == other.DeliveryAddress &&
		o.CreatedAt.Equal(other.CreatedAt) &&
		o.UpdatedAt.Equal(other.UpdatedAt) &&
		slices.EqualFunc(o.Items, other.Items, func(a, b OrderItem) bool {
			return a.MenuItemID == b.MenuItemID && a.Name == b.Name && a.Price.Equal(b.Price) && a.Quantity == b.Quantity
		})
}

// SortByRecency orders newest first by created_at; ties keep their relative order.
func SortByRecency(orders []Order) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// PlaceOrderLine is one entry of the order-creation request.
type PlaceOrderLine struct {
	MenuItemID ID  `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// PlaceOrderRequest is the body of POST /orders.
type PlaceOrderRequest struct {
	RestaurantID    ID               `json:"restaurant_id"`
	Items           []PlaceOrderLine `json:"items"`
	TotalAmount     json.Number      `json:"total_amount"`
	DeliveryAddress string           `json:"delivery_address"`
}

// OrderEnvelope is the {order: {...}} wrapper mutation endpoints answer with.
type OrderEnvelope struct {
	Order Order `json:"order"`
}
