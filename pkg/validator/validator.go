package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// Message renders a short, user-facing sentence for the failed rule.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required.", e.FailedField)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", e.FailedField)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", e.FailedField, e.Value)
	case "gte":
		return fmt.Sprintf("%s must be a non-negative number.", e.FailedField)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", e.FailedField, e.Value)
	default:
		return fmt.Sprintf("%s is invalid.", e.FailedField)
	}
}

var validate = validator.New()

func init() {
	// Report fields by their form/json name so messages line up with the submitted payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Money fields validate as numbers (gte=0 etc).
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "form", Tag: "invalid"}}
		}
		for _, err := range validationErrors {
			errors = append(errors, &ErrorResponse{
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Param(),
			})
		}
	}
	return errors
}
