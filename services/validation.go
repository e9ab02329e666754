package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// msgFillAllFields is returned when a required input is blank
const msgFillAllFields = "Please fill in all fields"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs struct validation on input. messages maps a JSON field
// name to the message used when that field fails; required failures fall back
// to msgFillAllFields.
func validateInput(input interface{}, messages map[string]string) *ServiceError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newServiceError(CodeValidation, "Invalid request data", err)
	}

	first := fieldErrs[0]
	if msg, ok := messages[first.Field()]; ok {
		return newServiceError(CodeValidation, msg, err)
	}
	if first.Tag() == "required" {
		return newServiceError(CodeValidation, msgFillAllFields, err)
	}
	return newServiceError(CodeValidation, first.Field()+" is invalid", err)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
