package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateCreateOrder reports every violated rule. Struct tags cover
// the shape checks; line prices are checked by hand because validator
// cannot compare decimal values.
func validateCreateOrder(req CreateOrderRequest) error {
	var violations []string
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, fe := range verrs {
			violations = append(violations, describeViolation(fe))
		}
	}
	for i, line := range req.Lines {
		if !line.UnitPrice.IsPositive() {
			violations = append(violations, fmt.Sprintf("lines[%d]: unit price must be greater than 0", i))
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s digits", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", fe.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
