package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	FullName string `validate:"max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(signUpPayload{
		Email:    "ada@example.ie",
		Password: "correct-horse",
		FullName: "Ada Lovelace",
	})
	assert.NoError(t, err)
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	err := ValidateStruct(signUpPayload{
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	assert.Equal(t, "Validation failed", err.Error())

	fields := GetValidationFields(err)
	assert.Equal(t, "Email must be a valid email", fields["Email"])
	assert.Equal(t, "Password must be at least 8", fields["Password"])
}

func TestValidateStruct_RequiredMessage(t *testing.T) {
	err := ValidateStruct(signUpPayload{Password: "correct-horse"})
	require.True(t, IsValidationError(err))

	fields := GetValidationFields(err)
	assert.Equal(t, "Email is required", fields["Email"])
	assert.NotContains(t, fields, "Password")
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("plain error")))
	assert.False(t, IsValidationError(nil))
	assert.Nil(t, GetValidationFields(errors.New("plain error")))
}
