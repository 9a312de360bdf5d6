package validation

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"starforge/internal/shared/errors"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Struct validates v against its struct tags and returns the first failure
// as a validation AppError.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError turns the first validator failure into an AppError.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WrapValidation("invalid request", err)
	}
	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return errors.Validationf("%s: is required", field)
	case "min":
		return errors.Validationf("%s: must be at least %s", field, e.Param())
	case "max":
		return errors.Validationf("%s: must not exceed %s", field, e.Param())
	case "oneof":
		return errors.Validationf("%s: must be one of [%s]", field, e.Param())
	default:
		return errors.Validationf("%s: validation failed (%s)", field, e.Tag())
	}
}
