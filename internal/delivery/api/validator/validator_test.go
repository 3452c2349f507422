package validator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,numeric"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := New().Validate(&signupBody{Email: "not-an-email", Password: "short", Mobile: "98x"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Rule: "email"},
		{Field: "password", Rule: "min", Param: "8"},
		{Field: "mobile", Rule: "numeric"},
	}, verr.Fields)
	assert.Contains(t, verr.Error(), "password failed min=8")
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, New().Validate(&signupBody{Email: "asha@example.com", Password: "s3cret-pass"}))
}
