package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name  string `validate:"required,min=2,max=10"`
	Port  int    `validate:"gte=1,lte=65535"`
	Level string `validate:"oneof=debug info warn error"`
}

func TestValidate_Valid(t *testing.T) {
	in := sampleInput{Name: "stores", Port: 8080, Level: "info"}
	assert.NoError(t, Validate(in))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	in := sampleInput{Name: "", Port: 0, Level: "loud"}

	err := Validate(in)
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be greater than or equal to 1", fields["Port"])
	assert.Equal(t, "must be one of: debug info warn error", fields["Level"])
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(sampleInput{Name: "x", Port: 8080, Level: "info"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "must be at least 2")
}
