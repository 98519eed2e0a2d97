package customers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/customer-profile/internal/platform/httpx"
)

var fieldMessages = map[string]string{
	"phone_number": "phone_number must be a string between 10 and 20 characters",
	"address":      "address must be a string between 5 and 200 characters",
	"email":        "email must be a valid email address",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// validateUpdate checks every provided field and reports all violations in
// one error, in a stable field order. Non-string values fail their field's
// rule.
func (s *Service) validateUpdate(req UpdateCustomerRequest) error {
	failed := make(map[string]bool, len(UpdatableFields))
	for _, name := range req.NonString {
		failed[name] = true
	}
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate update: %w", err)
		}
		for _, fe := range fieldErrs {
			failed[fe.Field()] = true
		}
	}
	if len(failed) == 0 {
		return nil
	}
	var messages []string
	for _, name := range UpdatableFields {
		if failed[name] {
			messages = append(messages, fieldMessages[name])
		}
	}
	return InvalidFieldsError(messages)
}

// InvalidFieldsError builds the 422 error for the given field messages.
func InvalidFieldsError(messages []string) error {
	return httpx.Errorf(httpx.ErrValidation, "Validation error: "+strings.Join(messages, ", "))
}
