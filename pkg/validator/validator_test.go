package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueInput struct {
	ID   string `json:"id" validate:"required,max=64"`
	Type string `json:"type" validate:"oneof=yt yp tw li sc vi dm"`
	Pos  string `json:"pos" validate:"oneof=next end"`
	Port int    `validate:"gte=1,lte=65535"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	errs, ok := v.Validate(queueInput{ID: "abc", Type: "yt", Pos: "end", Port: 80})
	assert.True(t, ok)
	assert.Nil(t, errs)
	assert.NoError(t, Error(errs))

	errs, ok = v.Validate(queueInput{Type: "xx", Pos: "end", Port: 0})
	require.False(t, ok)
	require.Len(t, errs, 3)
	assert.Equal(t, ValidationError{Field: "id", Code: "REQUIRED", Message: "id is required"}, errs[0])
	assert.Equal(t, "type", errs[1].Field)
	assert.Equal(t, "ONEOF", errs[1].Code)
	assert.Equal(t, "Port must be greater than or equal to 1", errs[2].Message)
	assert.EqualError(t, Error(errs), "id is required; type must be one of [yt yp tw li sc vi dm]; Port must be greater than or equal to 1")
}
