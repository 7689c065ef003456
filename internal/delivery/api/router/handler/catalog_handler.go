package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/entity"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// maxImageBytes caps an uploaded restaurant or dish picture.
const maxImageBytes = 5 << 20

var errImageTooLarge = errors.New("image exceeds 5MB")

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	Catalog usecase.CatalogUsecase
}

// CatalogHandler serves restaurants and menus.
type CatalogHandler struct {
	catalog usecase.CatalogUsecase
}

// RestaurantRequest is the restaurant form. It arrives as JSON, or as
// multipart with an optional "image" file part.
type RestaurantRequest struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description"`
	Address     string `json:"address" form:"address" validate:"required"`
	Phone       string `json:"phone" form:"phone"`
	ImageURL    string `json:"image_url" form:"image_url" validate:"omitempty,url"`
}

// MenuItemRequest is the dish form. A missing is_available means available.
type MenuItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{catalog: params.Catalog}
}

func (h *CatalogHandler) ListRestaurants(c echo.Context) error {
	restaurants, err := h.catalog.ListRestaurants(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurants)
}

func (h *CatalogHandler) GetRestaurant(c echo.Context) error {
	restaurant, err := h.catalog.GetRestaurant(c.Request().Context(), entity.ID(c.Param("id")))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

func (h *CatalogHandler) ListMenu(c echo.Context) error {
	items, err := h.catalog.ListMenu(c.Request().Context(), entity.ID(c.Param("id")))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, items)
}

// ListMyRestaurants lists the restaurants owned by the signed-in vendor.
func (h *CatalogHandler) ListMyRestaurants(c echo.Context) error {
	restaurants, err := h.catalog.ListMyRestaurants(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurants)
}

// CreateRestaurant handles the vendor's POST /restaurants.
func (h *CatalogHandler) CreateRestaurant(c echo.Context) error {
	in, ok, err := bindRestaurant(c)
	if !ok {
		return err
	}

	restaurant, err := h.catalog.CreateRestaurant(c.Request().Context(), in)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, restaurant)
}

func (h *CatalogHandler) UpdateRestaurant(c echo.Context) error {
	in, ok, err := bindRestaurant(c)
	if !ok {
		return err
	}

	restaurant, err := h.catalog.UpdateRestaurant(c.Request().Context(), entity.ID(c.Param("id")), in)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, restaurant)
}

// AddMenuItem handles POST /restaurants/:id/menu.
func (h *CatalogHandler) AddMenuItem(c echo.Context) error {
	in, ok, err := bindMenuItem(c)
	if !ok {
		return err
	}

	item, err := h.catalog.AddMenuItem(c.Request().Context(), entity.ID(c.Param("id")), in)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateMenuItem(c echo.Context) error {
	in, ok, err := bindMenuItem(c)
	if !ok {
		return err
	}

	item, err := h.catalog.UpdateMenuItem(c.Request().Context(), entity.ID(c.Param("id")), entity.ID(c.Param("itemId")), in)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, item)
}

func (h *CatalogHandler) DeleteMenuItem(c echo.Context) error {
	itemID := entity.ID(c.Param("itemId"))
	if err := h.catalog.DeleteMenuItem(c.Request().Context(), itemID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]entity.ID{"id": itemID})
}

// bindRestaurant reads and validates the restaurant form. When ok is false
// the request is finished: err is either the written response's result or a
// validation error for the error middleware.
func bindRestaurant(c echo.Context) (in entity.RestaurantInput, ok bool, err error) {
	var req RestaurantRequest
	if err := c.Bind(&req); err != nil {
		return in, false, response.BindingError(c, "Invalid restaurant input")
	}
	if err := c.Validate(&req); err != nil {
		return in, false, errors.WithStack(err)
	}

	image, err := formImage(c)
	if err != nil {
		return in, false, response.BindingError(c, "Invalid restaurant image")
	}

	return entity.RestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		ImageURL:    req.ImageURL,
		Image:       image,
	}, true, nil
}

func bindMenuItem(c echo.Context) (in entity.MenuItemInput, ok bool, err error) {
	var req MenuItemRequest
	if isMultipart(c) {
		if err := menuItemFromForm(c, &req); err != nil {
			return in, false, response.BindingError(c, "Invalid dish input")
		}
	} else if err := c.Bind(&req); err != nil {
		return in, false, response.BindingError(c, "Invalid dish input")
	}
	if err := c.Validate(&req); err != nil {
		return in, false, errors.WithStack(err)
	}

	image, err := formImage(c)
	if err != nil {
		return in, false, response.BindingError(c, "Invalid dish image")
	}

	available := req.IsAvailable == nil || *req.IsAvailable

	return entity.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: available,
		ImageURL:    req.ImageURL,
		Image:       image,
	}, true, nil
}

// menuItemFromForm reads the multipart fields by hand; price and the
// availability flag need parsing the default binder does not do.
func menuItemFromForm(c echo.Context, req *MenuItemRequest) error {
	req.Name = c.FormValue("name")
	req.Description = c.FormValue("description")
	req.ImageURL = c.FormValue("image_url")

	if raw := c.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return errors.WithStack(err)
		}
		req.Price = price
	}
	if raw := c.FormValue("is_available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.WithStack(err)
		}
		req.IsAvailable = &available
	}

	return nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formImage returns the "image" file part, or nil when the request carries none.
func formImage(c echo.Context) (*entity.ImageUpload, error) {
	if !isMultipart(c) {
		return nil, nil
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data) > maxImageBytes {
		return nil, errors.WithStack(errImageTooLarge)
	}

	return &entity.ImageUpload{Filename: header.Filename, Data: data}, nil
}
