package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{in: "customer", want: RoleCustomer, wantOK: true},
		{in: "end_user", want: RoleCustomer, wantOK: true},
		{in: "restaurant", want: RoleVendor, wantOK: true},
		{in: "Vendor", want: RoleVendor, wantOK: true},
		{in: "rider", want: RoleRider, wantOK: true},
		{in: "admin", want: RoleAdmin, wantOK: true},
		{in: "superuser", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_UnmarshalKeepsUnknownVerbatim(t *testing.T) {
	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"superuser"`), &r))
	assert.Equal(t, Role("superuser"), r)
	assert.False(t, r.IsValid())
}

func TestAuthResponse_SplitsTokenFromIdentity(t *testing.T) {
	var resp AuthResponse
	raw := `{"accessToken":"tok","id":1,"name":"Asha","email":"a@x.io","role":"restaurant","address":"12 Main St"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.Equal(t, Credential("tok"), resp.AccessToken)
	assert.Equal(t, ID("1"), resp.Identity.ID)
	assert.Equal(t, RoleVendor, resp.Identity.Role)
	assert.Equal(t, "12 Main St", resp.Identity.DeliveryAddress())
}

func TestIdentity_DeliveryAddressFallback(t *testing.T) {
	var nilIdentity *Identity
	assert.Equal(t, DefaultDeliveryAddress, nilIdentity.DeliveryAddress())
	assert.Equal(t, DefaultDeliveryAddress, (&Identity{}).DeliveryAddress())
}

func TestRole_WireNameRoundTrips(t *testing.T) {
	tests := []struct {
		role Role
		wire string
	}{
		{role: RoleCustomer, wire: "end_user"},
		{role: RoleVendor, wire: "restaurant"},
		{role: RoleRider, wire: "rider"},
		{role: RoleAdmin, wire: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.wire, tt.role.WireName())

			parsed, ok := ParseRole(tt.role.WireName())
			require.True(t, ok)
			assert.Equal(t, tt.role, parsed)
		})
	}
}
