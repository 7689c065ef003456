// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
)

// jwtInspector reads claims from the access token without checking its
// signature. The client holds no key; the server rejects forged tokens.
type jwtInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector is the constructor for jwtInspector.
func NewJWTInspector() service.TokenInspector {
	return &jwtInspector{
		parser: jwt.NewParser(),
	}
}

// Inspect decodes subject, role and expiry. A role is read from the "role"
// claim, falling back to the first recognized entry of "roles".
func (i *jwtInspector) Inspect(credential entity.Credential) (*service.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(string(credential), claims); err != nil {
		return nil, errors.Wrap(err, "parse credential")
	}

	result := &service.TokenClaims{}

	if sub, err := claims.GetSubject(); err == nil {
		result.Subject = sub
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		result.ExpiresAt = &t
	}

	result.Role = roleFromClaims(claims)

	return result, nil
}

func roleFromClaims(claims jwt.MapClaims) entity.Role {
	if raw, ok := claims["role"].(string); ok {
		if role, ok := entity.ParseRole(raw); ok {
			return role
		}
	}

	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			s, _ := r.(string)
			if role, ok := entity.ParseRole(s); ok {
				return role
			}
		}
	}

	return ""
}
