package handler

import (
	"net/http"
	"strconv"

	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/entity"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	Cart usecase.CartUsecase
}

// CartHandler exposes the single-vendor cart.
type CartHandler struct {
	cart usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{cart: params.Cart}
}

// CartView is the cart with its derived totals. Total is a decimal string.
type CartView struct {
	Vendor    *entity.Restaurant `json:"vendor"`
	Lines     []entity.CartLine  `json:"lines"`
	Total     string             `json:"total"`
	ItemCount int                `json:"item_count"`
}

func (h *CartHandler) view() CartView {
	cart := h.cart.Cart()
	lines := cart.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}

	return CartView{
		Vendor:    cart.Vendor,
		Lines:     lines,
		Total:     cart.Total().StringFixed(2),
		ItemCount: cart.ItemCount(),
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.view())
}

// SelectVendor handles PUT /cart/vendor. A different vendor empties the cart.
func (h *CartHandler) SelectVendor(c echo.Context) error {
	var vendor entity.Restaurant
	if err := c.Bind(&vendor); err != nil {
		return response.BindingError(c, "Invalid restaurant")
	}

	if err := h.cart.SelectVendor(c.Request().Context(), vendor); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

func (h *CartHandler) ClearVendor(c echo.Context) error {
	if err := h.cart.ClearVendor(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

// AddItem handles POST /cart/items with a menu item snapshot as body.
func (h *CartHandler) AddItem(c echo.Context) error {
	var item entity.MenuItem
	if err := c.Bind(&item); err != nil || item.ID.IsZero() {
		return response.BindingError(c, "Invalid menu item")
	}

	if _, err := h.cart.AddItem(c.Request().Context(), item); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

// RemoveItem handles DELETE /cart/items/:id. With ?all=true the whole line goes.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id := entity.ID(c.Param("id"))
	all, _ := strconv.ParseBool(c.QueryParam("all"))

	var err error
	if all {
		err = h.cart.DeleteItem(c.Request().Context(), id)
	} else {
		err = h.cart.RemoveItem(c.Request().Context(), id)
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

// Checkout handles POST /cart/checkout.
func (h *CartHandler) Checkout(c echo.Context) error {
	order, err := h.cart.PlaceOrder(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, order)
}
