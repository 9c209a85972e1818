package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with ledger-specific rules and
// error formatting
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom rules registered
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("account_number", validateAccountNumber)
	_ = v.RegisterValidation("card_last4", validateCardLastFour)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct and returns per-field messages joined into one
// error, using json field names.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, formatFieldError(fieldErr))
	}

	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

func formatFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "gt", "positive_amount":
		return fmt.Sprintf("%s must be greater than zero", fieldErr.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", fieldErr.Field(), fieldErr.Param())
	case "account_number":
		return fmt.Sprintf("%s must be a 10-digit account number", fieldErr.Field())
	case "card_last4":
		return fmt.Sprintf("%s must be the last 4 digits of a card number", fieldErr.Field())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}

// Custom validation functions

// validateAccountNumber validates the generated account-number format:
// exactly 10 digits.
func validateAccountNumber(fl validator.FieldLevel) bool {
	accountNumber := fl.Field().String()
	if accountNumber == "" {
		return false
	}

	matched, _ := regexp.MatchString(`^\d{10}$`, accountNumber)
	return matched
}

// validateCardLastFour validates a card reference: exactly 4 digits.
func validateCardLastFour(fl validator.FieldLevel) bool {
	lastFour := fl.Field().String()
	matched, _ := regexp.MatchString(`^\d{4}$`, lastFour)
	return matched
}

// validatePositiveAmount validates that an amount is greater than 0
func validatePositiveAmount(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() > 0
	case reflect.Float32, reflect.Float64:
		return fl.Field().Float() > 0
	default:
		return false
	}
}
