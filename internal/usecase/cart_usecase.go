package usecase

import (
	"context"

	"tiffin/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CartUsecase is the single-vendor cart.
type CartUsecase interface {
	// SelectVendor switches vendor. A different vendor empties the cart.
	SelectVendor(ctx context.Context, vendor entity.Restaurant) error
	ClearVendor(ctx context.Context) error

	AddItem(ctx context.Context, item entity.MenuItem) (int, error)
	// RemoveItem decrements; an absent item is a no-op.
	RemoveItem(ctx context.Context, id entity.ID) error
	DeleteItem(ctx context.Context, id entity.ID) error

	// PlaceOrder submits the cart. On success the cart and vendor are cleared.
	PlaceOrder(ctx context.Context) (*entity.Order, error)

	Cart() entity.Cart
	Total() decimal.Decimal
}
