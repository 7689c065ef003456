package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestEchoValidator(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&signInInput{Email: "a@b.co", Password: "x"}))

	err := v.Validate(&signInInput{Email: "nope"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"email": "email", "password": "required"}, FieldErrors(err))
}

func TestFieldErrors_OtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
