package entity

import (
	"encoding/json"

	"tiffin/internal/errors"
)

// EventKind names an inbound push-channel event.
type EventKind string

const (
	EventOrderUpdate     EventKind = "order_update"
	EventNewNotification EventKind = "new_notification"
)

// ErrUnknownEvent is returned by DecodeEvent for event names the client does not consume.
var ErrUnknownEvent = errors.New("unknown event")

// Event is the closed set of inbound push events: OrderUpdated or NotificationReceived.
type Event interface {
	Kind() EventKind
	isEvent()
}

// OrderUpdated carries a full order snapshot.
type OrderUpdated struct {
	Order Order
}

// Kind implements Event.
func (OrderUpdated) Kind() EventKind { return EventOrderUpdate }
func (OrderUpdated) isEvent()        {}

// NotificationReceived carries a full notification snapshot.
type NotificationReceived struct {
	Notification Notification
}

// Kind implements Event.
func (NotificationReceived) Kind() EventKind { return EventNewNotification }
func (NotificationReceived) isEvent()        {}

// DecodeEvent validates and coerces a raw payload into a typed event.
func DecodeEvent(kind EventKind, payload json.RawMessage) (Event, error) {
	switch kind {
	case EventOrderUpdate:
		var order Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, errors.Wrap(err, "decode order_update")
		}
		if order.ID.IsZero() {
			return nil, errors.New("order_update without id")
		}

		return OrderUpdated{Order: order}, nil
	case EventNewNotification:
		var n Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, errors.Wrap(err, "decode new_notification")
		}
		if n.ID.IsZero() {
			return nil, errors.New("new_notification without id")
		}

		return NotificationReceived{Notification: n}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownEvent, "%s", kind)
	}
}
