package service

import (
	"time"

	"tiffin/internal/domain/entity"
)

// TokenClaims are the credential claims the client reads without verification.
type TokenClaims struct {
	Subject   string
	Role      entity.Role
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry at or before now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// TokenInspector reads claims from an opaque credential. Signature checks are
// the server's job.
type TokenInspector interface {
	Inspect(credential entity.Credential) (*TokenClaims, error)
}
