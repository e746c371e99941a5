package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	app_errors "iris-chat/backend/internal/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator. Field errors are reported
// by their JSON names so messages match what the client sent.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// validateRequest checks payload against its `validate` tags and returns a
// wrapped ErrValidation listing every failed field.
func validateRequest(payload interface{}) error {
	err := validatorInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %s", app_errors.ErrValidation, err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, describeFieldError(fieldErr))
	}
	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	// Namespace is "SendMessageRequest.content"; drop the struct name.
	_, field, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "max":
		return fmt.Sprintf("'%s' must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("'%s' failed on the '%s' rule", field, fe.Tag())
	}
}
