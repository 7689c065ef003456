package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Restaurant is a vendor on the marketplace.
type Restaurant struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	OwnerID     ID     `json:"owner_id,omitempty"`
}

// UnmarshalJSON accepts either `id` or `_id`.
func (r *Restaurant) UnmarshalJSON(data []byte) error {
	type plain Restaurant
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}
	if r.ID.IsZero() {
		r.ID = legacyID(data)
	}

	return nil
}

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID           ID              `json:"id"`
	RestaurantID ID              `json:"restaurant_id,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
	IsAvailable  *bool           `json:"is_available,omitempty"`
}

// UnmarshalJSON accepts either `id` or `_id`.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type plain MenuItem
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}
	if m.ID.IsZero() {
		m.ID = legacyID(data)
	}

	return nil
}

// Available treats a missing flag as available.
func (m MenuItem) Available() bool {
	return m.IsAvailable == nil || *m.IsAvailable
}

// ImageUpload is a picture sent with a restaurant or menu item form.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// RestaurantInput is the vendor's restaurant form. Image takes precedence
// over ImageURL.
type RestaurantInput struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Address     string       `json:"address" validate:"required"`
	Phone       string       `json:"phone"`
	ImageURL    string       `json:"image_url,omitempty" validate:"omitempty,url"`
	Image       *ImageUpload `json:"-"`
}

// MenuItemInput is the vendor's dish form. Image takes precedence over ImageURL.
type MenuItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Image       *ImageUpload    `json:"-"`
}
