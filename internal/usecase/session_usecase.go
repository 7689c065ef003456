// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"tiffin/internal/domain/entity"
)

// SessionUsecase owns the signed-in identity and its credential.
type SessionUsecase interface {
	// Hydrate restores a persisted session optimistically, then verifies it
	// against the profile endpoint. Ready is closed when it returns.
	Hydrate(ctx context.Context) error
	Ready() <-chan struct{}

	SignIn(ctx context.Context, req entity.SignInRequest) (*entity.Identity, error)
	// SignUp registers an account. It never establishes a session.
	SignUp(ctx context.Context, req entity.SignUpRequest) error
	// SignOut is synchronous and makes no network call.
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Identity, error)

	IsAuthenticated() bool
	HasRole(role entity.Role) bool
	Identity() (entity.Identity, bool)
	Credential() entity.Credential
}

// SessionScoped is state that belongs to one identity and is dropped on sign-out.
type SessionScoped interface {
	Clear(ctx context.Context)
}

// DashboardRole picks the role whose collections the session works with.
// Riders win over vendors; everyone else is treated as a customer.
func DashboardRole(s SessionUsecase) entity.Role {
	switch {
	case s.HasRole(entity.RoleRider):
		return entity.RoleRider
	case s.HasRole(entity.RoleVendor):
		return entity.RoleVendor
	default:
		return entity.RoleCustomer
	}
}
