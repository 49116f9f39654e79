package validator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Port int    `env:"PORT" validate:"min=1,max=65535"`
	Mode string `env:"MODE" validate:"upper"`
}

func TestFieldsUsesRegisteredNames(t *testing.T) {
	v := New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return f.Tag.Get("env") })
	require.NoError(t, v.RegisterValidation("upper", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "PROD"
	}))

	err := v.Struct(sample{Port: 0, Mode: "dev"})
	require.Error(t, err)

	assert.ElementsMatch(t, []FieldError{
		{Field: "PORT", Rule: "min", Param: "1"},
		{Field: "MODE", Rule: "upper"},
	}, Fields(err))

	assert.NoError(t, v.Struct(sample{Port: 80, Mode: "PROD"}))
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(errors.New("boom")))
	assert.Nil(t, Fields(nil))
}
