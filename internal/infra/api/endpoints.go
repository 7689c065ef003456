package api

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/errors"
)

func idPath(prefix string, id entity.ID, suffix string) string {
	return prefix + url.PathEscape(id.String()) + suffix
}

func (c *Client) SignIn(ctx context.Context, req entity.SignInRequest) (*entity.AuthResponse, error) {
	var out entity.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", req, &out, true); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, req entity.SignUpRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", req, nil, true)
}

func (c *Client) GetProfile(ctx context.Context) (*entity.Identity, error) {
	var out entity.Identity
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &out, false); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Identity, error) {
	var out entity.Identity
	if err := c.do(ctx, http.MethodPut, "/users/profile", update, &out, false); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	var out []entity.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants", nil, &out, false); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

func (c *Client) GetRestaurant(ctx context.Context, id entity.ID) (*entity.Restaurant, error) {
	var out entity.Restaurant
	if err := c.do(ctx, http.MethodGet, idPath("/restaurants/", id, ""), nil, &out, false); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListMenu(ctx context.Context, restaurantID entity.ID) ([]entity.MenuItem, error) {
	var out []entity.MenuItem
	if err := c.do(ctx, http.MethodGet, idPath("/restaurants/", restaurantID, "/menu"), nil, &out, false); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

func (c *Client) ListMyRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	var out []entity.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants/owner/my-restaurants", nil, &out, false); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

func (c *Client) CreateRestaurant(ctx context.Context, in entity.RestaurantInput) (*entity.Restaurant, error) {
	var out entity.Restaurant
	if err := c.record(ctx, http.MethodPost, "/restaurants", restaurantForm(in), &out, "restaurant"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateRestaurant(ctx context.Context, id entity.ID, in entity.RestaurantInput) (*entity.Restaurant, error) {
	var out entity.Restaurant
	if err := c.record(ctx, http.MethodPut, idPath("/restaurants/", id, ""), restaurantForm(in), &out, "restaurant"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) AddMenuItem(ctx context.Context, restaurantID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error) {
	var out entity.MenuItem
	path := idPath("/restaurants/", restaurantID, "/menu")
	if err := c.record(ctx, http.MethodPost, path, menuItemForm(in), &out, "menuItem", "item"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, restaurantID, itemID entity.ID, in entity.MenuItemInput) (*entity.MenuItem, error) {
	var out entity.MenuItem
	path := idPath("/restaurants/", restaurantID, "/menu/") + url.PathEscape(itemID.String())
	if err := c.record(ctx, http.MethodPut, path, menuItemForm(in), &out, "menuItem", "item"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, itemID entity.ID) error {
	return c.do(ctx, http.MethodDelete, idPath("/restaurants/menu/", itemID, ""), nil, nil, false)
}

func (c *Client) CreateOrder(ctx context.Context, req entity.PlaceOrderRequest) (*entity.Order, error) {
	return c.orderMutation(ctx, http.MethodPost, "/orders", req)
}

func (c *Client) ListMyOrders(ctx context.Context) ([]entity.Order, error) {
	return c.orderList(ctx, "/orders/my-orders")
}

func (c *Client) GetOrder(ctx context.Context, id entity.ID) (*entity.Order, error) {
	var out entity.Order
	if err := c.do(ctx, http.MethodGet, idPath("/orders/", id, ""), nil, &out, false); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListAvailableOrders(ctx context.Context) ([]entity.Order, error) {
	return c.orderList(ctx, "/orders/available")
}

func (c *Client) AcceptOrder(ctx context.Context, id entity.ID) (*entity.Order, error) {
	return c.orderMutation(ctx, http.MethodPost, idPath("/orders/", id, "/accept"), nil)
}

type statusBody struct {
	Status entity.OrderStatus `json:"status"`
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error) {
	return c.orderMutation(ctx, http.MethodPut, idPath("/orders/", id, "/status"), statusBody{Status: status})
}

func (c *Client) UpdateRiderStatus(ctx context.Context, id entity.ID, status entity.OrderStatus) (*entity.Order, error) {
	return c.orderMutation(ctx, http.MethodPut, idPath("/orders/", id, "/rider-status"), statusBody{Status: status})
}

func (c *Client) ListRiderOrders(ctx context.Context) ([]entity.Order, error) {
	return c.orderList(ctx, "/orders/rider/my-orders")
}

func (c *Client) ListRestaurantOrders(ctx context.Context, restaurantID entity.ID) ([]entity.Order, error) {
	return c.orderList(ctx, idPath("/orders/restaurant/", restaurantID, ""))
}

func (c *Client) GetOrderPayment(ctx context.Context, orderID entity.ID) (*entity.Payment, error) {
	var out entity.Payment
	if err := c.record(ctx, http.MethodGet, idPath("/payments/order/", orderID, ""), nil, &out, "payment"); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListNotifications(ctx context.Context) ([]entity.Notification, error) {
	var out []entity.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &out, false); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id entity.ID) error {
	return c.do(ctx, http.MethodPut, idPath("/notifications/", id, "/read"), nil, nil, false)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil, false)
}

func (c *Client) DeleteNotification(ctx context.Context, id entity.ID) error {
	return c.do(ctx, http.MethodDelete, idPath("/notifications/", id, ""), nil, nil, false)
}

func (c *Client) orderList(ctx context.Context, path string) ([]entity.Order, error) {
	var out []entity.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

// orderMutation unwraps the {order: {...}} envelope mutation endpoints answer with.
func (c *Client) orderMutation(ctx context.Context, method, path string, body any) (*entity.Order, error) {
	var out entity.OrderEnvelope
	if err := c.do(ctx, method, path, body, &out, false); err != nil {
		return nil, err
	}

	return &out.Order, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

// record decodes a single record answered either bare or wrapped under one of keys.
func (c *Client) record(ctx context.Context, method, path string, body, out any, keys ...string) error {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, body, &raw, false); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	var wrapped map[string]json.RawMessage
	if json.Unmarshal(raw, &wrapped) == nil {
		for _, key := range keys {
			if inner, ok := wrapped[key]; ok && string(inner) != "null" {
				raw = inner

				break
			}
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(domainerrors.ErrServer.WithDetails(err.Error()), "decode %s %s", method, path)
	}

	return nil
}

type restaurantForm entity.RestaurantInput

func (f restaurantForm) writeForm(w *multipart.Writer) error {
	fields := [][2]string{
		{"name", f.Name},
		{"description", f.Description},
		{"address", f.Address},
		{"phone", f.Phone},
	}
	if err := writeFields(w, fields); err != nil {
		return err
	}

	return writeImage(w, f.Image, f.ImageURL)
}

type menuItemForm entity.MenuItemInput

func (f menuItemForm) writeForm(w *multipart.Writer) error {
	fields := [][2]string{
		{"name", f.Name},
		{"description", f.Description},
		{"price", f.Price.String()},
		{"is_available", strconv.FormatBool(f.IsAvailable)},
	}
	if err := writeFields(w, fields); err != nil {
		return err
	}

	return writeImage(w, f.Image, f.ImageURL)
}

func writeFields(w *multipart.Writer, fields [][2]string) error {
	for _, field := range fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return errors.Wrapf(err, "write field %s", field[0])
		}
	}

	return nil
}

// writeImage attaches the uploaded file, or the image URL when there is no file.
func writeImage(w *multipart.Writer, image *entity.ImageUpload, imageURL string) error {
	if image != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return errors.Wrap(err, "create image part")
		}
		if _, err := part.Write(image.Data); err != nil {
			return errors.Wrap(err, "write image part")
		}

		return nil
	}
	if imageURL != "" {
		return errors.Wrap(w.WriteField("image_url", imageURL), "write field image_url")
	}

	return nil
}
