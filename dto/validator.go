package dto

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// emailRegex requires a full local@domain.tld shape; validator's built-in
// email tag accepts bare domains without a TLD.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,18}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("email_tld", validateEmailTld)
	validate.RegisterValidation("phone", validatePhone)
}

func GetValidator() *validator.Validate {
	return validate
}

func validateEmailTld(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors accumulates every field error, not just the
// first, so the UI can display them together.
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "required_if":
				message = fieldError.Field() + " is required"
			case "email", "email_tld":
				message = "Invalid email format"
			case "phone":
				message = fieldError.Field() + " must be a valid phone number"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param() + " characters"
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

// JoinValidationErrors flattens accumulated field errors into the
// user-facing message.
func JoinValidationErrors(err error) string {
	formatted := FormatValidationErrors(err)
	if len(formatted) == 0 {
		return "Invalid request"
	}

	messages := make([]string, 0, len(formatted))
	for _, fe := range formatted {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

type Validator interface {
	Validate() error
}
