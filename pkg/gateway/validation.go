package gateway

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fadedpez/neobank/internal/types"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages match what the backend calls the field
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// let numeric tags (gt, lte, ...) apply to decimal amounts
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// validationError turns validator output into a single VALIDATION_ERROR
// whose message names the first offending field
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return types.WrapError(types.ErrValidation, "Invalid request", err)
	}

	e := validationErrors[0]
	field := e.Field()
	var message string
	switch e.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "gt":
		message = fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		message = fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		message = fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "min":
		message = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		message = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "oneof":
		message = fmt.Sprintf("%s must be one of %s", field, e.Param())
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}
	return types.WrapError(types.ErrValidation, message, err)
}
