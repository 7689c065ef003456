// Package handler contains the gateway's HTTP handlers.
package handler

import (
	"log/slog"
	"net/http"

	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/entity"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	Session usecase.SessionUsecase
	Logger  *slog.Logger
}

// SessionHandler exposes sign-in, sign-up and the current identity.
type SessionHandler struct {
	session usecase.SessionUsecase
	logger  *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler.
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{
		session: params.Session,
		logger:  params.Logger,
	}
}

// SessionView is what view code needs to pick a dashboard.
type SessionView struct {
	Authenticated bool             `json:"authenticated"`
	Identity      *entity.Identity `json:"identity,omitempty"`
	HomePath      string           `json:"home_path,omitempty"`
}

func (h *SessionHandler) view() SessionView {
	identity, ok := h.session.Identity()
	if !ok || !h.session.IsAuthenticated() {
		return SessionView{}
	}

	return SessionView{
		Authenticated: true,
		Identity:      &identity,
		HomePath:      identity.Role.HomePath(),
	}
}

// GetSession waits for hydration and reports the current identity.
func (h *SessionHandler) GetSession(c echo.Context) error {
	select {
	case <-h.session.Ready():
	case <-c.Request().Context().Done():
		return errors.WithStack(c.Request().Context().Err())
	}

	return response.Success(c, http.StatusOK, h.view())
}

// SignIn handles POST /session/signin.
func (h *SessionHandler) SignIn(c echo.Context) error {
	var req entity.SignInRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid sign-in input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if _, err := h.session.SignIn(c.Request().Context(), req); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}

// SignUp handles POST /session/signup. It never signs the caller in.
func (h *SessionHandler) SignUp(c echo.Context) error {
	var req entity.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid sign-up input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.session.SignUp(c.Request().Context(), req); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"email": req.Email})
}

// SignOut handles POST /session/signout.
func (h *SessionHandler) SignOut(c echo.Context) error {
	h.session.SignOut(c.Request().Context())

	return response.Success(c, http.StatusOK, h.view())
}

// UpdateProfile handles PUT /session/profile.
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	var req entity.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid profile input")
	}

	if _, err := h.session.UpdateProfile(c.Request().Context(), req); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.view())
}
