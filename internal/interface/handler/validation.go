package handler

import (
	"reflect"
	"strings"

	"telecare-notifier/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their wire names, not Go struct names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateStruct runs the struct tags and folds every violation into one
// ValidationError listing all invalid fields.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("cannot process request")
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldErr.Field()+" "+tagMessage(fieldErr))
	}
	return apperrors.Validation(strings.Join(messages, ", "))
}

func tagMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fieldErr.Param()), ", ")
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
