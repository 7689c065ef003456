package entity

import (
	"encoding/json"
	"strings"
)

// Role is the capability claim the server asserts for an identity.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleRider    Role = "rider"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a wire role onto a Role. The API also uses end_user/user for
// customers and restaurant for vendors. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "end_user", "user":
		return RoleCustomer, true
	case "vendor", "restaurant":
		return RoleVendor, true
	case "rider":
		return RoleRider, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleRider, RoleAdmin:
		return true
	default:
		return false
	}
}

// HomePath is the dashboard an identity with this role lands on.
func (r Role) HomePath() string {
	switch r {
	case RoleVendor:
		return "/restaurant"
	case RoleRider:
		return "/rider"
	case RoleAdmin:
		return "/admin"
	default:
		return "/user"
	}
}

// WireName is the role name the API accepts on write: customers sign up as
// end_user and vendors as restaurant. Unknown roles are sent verbatim.
func (r Role) WireName() string {
	switch r {
	case RoleCustomer:
		return "end_user"
	case RoleVendor:
		return "restaurant"
	default:
		return string(r)
	}
}

// UnmarshalJSON normalizes role aliases. An unrecognized role is kept verbatim
// so it never matches a known capability.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}

	if role, ok := ParseRole(s); ok {
		*r = role
	} else {
		*r = Role(s)
	}

	return nil
}
