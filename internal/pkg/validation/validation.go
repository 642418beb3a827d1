package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a struct using its `validate` tags and returns a single
// human-readable error for the first failing field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
