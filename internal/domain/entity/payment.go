package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the settlement record of an order. The client only reads it.
type Payment struct {
	ID            ID              `json:"id"`
	OrderID       ID              `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Method        string          `json:"payment_method,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// UnmarshalJSON accepts either `id` or `_id`.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type plain Payment
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}
	if p.ID.IsZero() {
		p.ID = legacyID(data)
	}

	return nil
}
