package middleware

import (
	"tiffin/internal/delivery/api/response"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionMiddlewareParams holds dependencies for SessionMiddleware, injected by Fx.
type SessionMiddlewareParams struct {
	fx.In

	Session usecase.SessionUsecase
	Toasts  usecase.ToastUsecase
}

// SessionMiddleware gates routes on the local session rather than a bearer
// header: the gateway serves exactly one signed-in identity.
type SessionMiddleware struct {
	session usecase.SessionUsecase
	toasts  usecase.ToastUsecase
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(params SessionMiddlewareParams) *SessionMiddleware {
	return &SessionMiddleware{session: params.Session, toasts: params.Toasts}
}

// AttachToasts exposes the visible toast to every response envelope.
func (m *SessionMiddleware) AttachToasts(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		response.AttachToasts(c, m.toasts)

		return next(c)
	}
}

// Authenticate waits for hydration, then rejects requests without a session.
func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		select {
		case <-m.session.Ready():
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}

		if !m.session.IsAuthenticated() {
			return response.Unauthorized(c, domainerrors.ErrNotAuthenticated.ErrorCode(), domainerrors.ErrNotAuthenticated.Message())
		}

		return next(c)
	}
}

// RequireRole admits the session when it holds any of roles. It must be used
// after Authenticate.
func (m *SessionMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, role := range roles {
				if m.session.HasRole(role) {
					return next(c)
				}
			}

			return response.Forbidden(c, domainerrors.ErrForbidden.ErrorCode(), domainerrors.ErrForbidden.Message())
		}
	}
}
