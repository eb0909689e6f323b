package shared

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/medsupply/backend/internal/domain/shared"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the process-wide validator instance. Field names in
// error messages follow the json tag, matching what callers see on the wire.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct validates a request struct against its validate tags and
// converts failures into a DomainError listing the offending fields
func ValidateStruct(req interface{}) error {
	err := Validator().Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		parts = append(parts, fieldError.Field()+": "+validationMessage(fieldError))
	}
	return shared.NewDomainError("INVALID_INPUT", strings.Join(parts, "; "))
}

// validationMessage returns a human-readable message for one field failure
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "uuid":
		return "invalid UUID format"
	default:
		return "invalid value"
	}
}
