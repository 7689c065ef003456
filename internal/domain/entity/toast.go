package entity

import "time"

// ToastType selects how a toast is rendered.
type ToastType string

const (
	ToastInfo    ToastType = "info"
	ToastSuccess ToastType = "success"
	ToastWarning ToastType = "warning"
	ToastError   ToastType = "error"
)

// ParseToastType accepts the four known toast types.
func ParseToastType(s string) (ToastType, bool) {
	switch t := ToastType(s); t {
	case ToastInfo, ToastSuccess, ToastWarning, ToastError:
		return t, true
	default:
		return "", false
	}
}

// Toast is the single transient message shown to the user.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      ToastType `json:"type"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the toast should no longer be visible at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
