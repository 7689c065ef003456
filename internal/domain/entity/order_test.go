package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_UpdateMessage(t *testing.T) {
	assert.Equal(t, "Your order is on the way! 🚀", OrderStatusOnTheWay.UpdateMessage("5"))
	assert.Equal(t, "Order #5 status updated to cancelled", OrderStatusCancelled.UpdateMessage("5"))
	assert.Equal(t, ToastSuccess, OrderStatusDelivered.UpdateToastType())
	assert.Equal(t, ToastInfo, OrderStatusPreparing.UpdateToastType())
}

func TestOrderStatus_IsForward(t *testing.T) {
	assert.True(t, OrderStatusPending.IsForward(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.IsForward(OrderStatusCancelled))
	assert.False(t, OrderStatusPreparing.IsForward(OrderStatusConfirmed))
	assert.False(t, OrderStatusReady.IsForward(OrderStatusCancelled))
	assert.False(t, OrderStatus("lost").IsForward(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.IsTerminal())
}

func TestSortByRecency(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	orders := []Order{
		{ID: "1", CreatedAt: base},
		{ID: "2", CreatedAt: base.Add(time.Hour)},
		{ID: "3", CreatedAt: base.Add(-time.Hour)},
	}

	SortByRecency(orders)

	assert.Equal(t, []ID{"2", "1", "3"}, []ID{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusOnTheWay.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("lost").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrder_Equal(t *testing.T) {
	base := Order{
		ID:          "5",
		Status:      OrderStatusReady,
		TotalAmount: decimal.RequireFromString("300"),
		Items:       []OrderItem{{MenuItemID: "A", Price: decimal.RequireFromString("150"), Quantity: 2}},
	}

	same := base.Clone()
	same.TotalAmount = decimal.RequireFromString("300.00")
	assert.True(t, base.Equal(same))

	moved := base.Clone()
	moved.RiderID = "r-2"
	assert.False(t, base.Equal(moved))

	resized := base.Clone()
	resized.Items[0].Quantity = 3
	assert.False(t, base.Equal(resized))
}
