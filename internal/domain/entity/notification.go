package entity

import (
	"encoding/json"
	"time"
)

// Notification is a message addressed to the signed-in identity.
type Notification struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read"`
	OrderID   ID        `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Key is the identifier used by keyed collections.
func (n Notification) Key() ID {
	return n.ID
}

// UnmarshalJSON accepts either `id` or `_id`, and `createdAt` when
// `created_at` is missing.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type plain Notification
	if err := json.Unmarshal(data, (*plain)(n)); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}
	if n.ID.IsZero() {
		n.ID = legacyID(data)
	}
	if n.CreatedAt.IsZero() {
		var camel struct {
			CreatedAt time.Time `json:"createdAt"`
		}
		if json.Unmarshal(data, &camel) == nil {
			n.CreatedAt = camel.CreatedAt
		}
	}

	return nil
}

// Normalize fills the fields a pushed notification may omit.
func (n Notification) Normalize(now time.Time) Notification {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}

	return n
}

// ToastText is the message, else the title, else a generic text.
func (n Notification) ToastText() string {
	switch {
	case n.Message != "":
		return n.Message
	case n.Title != "":
		return n.Title
	default:
		return "New notification"
	}
}

// ToastType maps the notification type onto a toast type, defaulting to info.
func (n Notification) ToastType() ToastType {
	if t, ok := ParseToastType(n.Type); ok {
		return t
	}

	return ToastInfo
}

// UnreadCount counts notifications not yet marked read.
func UnreadCount(items []Notification) int {
	count := 0
	for _, n := range items {
		if !n.Read {
			count++
		}
	}

	return count
}
