package entity

import "encoding/json"

// Identity is the signed-in user as last reported by the API.
type Identity struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// DeliveryAddress falls back to a placeholder when the profile has no address.
func (i *Identity) DeliveryAddress() string {
	if i == nil || i.Address == "" {
		return DefaultDeliveryAddress
	}

	return i.Address
}

// DefaultDeliveryAddress is sent when the identity carries no address.
const DefaultDeliveryAddress = "Default Address"

// UnmarshalJSON accepts either `id` or `_id`.
func (i *Identity) UnmarshalJSON(data []byte) error {
	type plain Identity
	if err := json.Unmarshal(data, (*plain)(i)); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}
	if i.ID.IsZero() {
		i.ID = legacyID(data)
	}

	return nil
}
