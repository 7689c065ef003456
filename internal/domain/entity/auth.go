package entity

import "encoding/json"

// Credential is the opaque bearer token issued at sign-in.
type Credential string

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// MarshalJSON sends the role under its wire name.
func (r SignUpRequest) MarshalJSON() ([]byte, error) {
	type plain SignUpRequest
	out := struct {
		plain
		Role string `json:"role,omitempty"`
	}{plain: plain(r), Role: r.Role.WireName()}

	return json.Marshal(out) //nolint:wrapcheck // plain struct encoding
}

// ProfileUpdate is the body of PUT /users/profile. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// AuthResponse is the sign-in answer: the access token next to the identity fields.
type AuthResponse struct {
	AccessToken Credential
	Identity    Identity
}

// UnmarshalJSON splits {accessToken, ...identityFields}.
func (r *AuthResponse) UnmarshalJSON(data []byte) error {
	var token struct {
		AccessToken Credential `json:"accessToken"`
	}
	if err := json.Unmarshal(data, &token); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return err //nolint:wrapcheck // json errors already carry position
	}

	r.AccessToken = token.AccessToken
	r.Identity = identity

	return nil
}
