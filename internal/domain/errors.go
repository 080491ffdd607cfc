package domain

import "errors"

var (
	ErrCategoryExists     = errors.New("category already exists")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidCategoryID  = errors.New("invalid category id")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes user input that cannot be accepted as submitted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err should be shown back to the user.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrCategoryExists) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidCategoryID)
}

// UserMessage returns the text shown to the user for a validation error, or
// "" when err is not one.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrCategoryExists):
		return "Category already exists."
	case errors.Is(err, ErrUnknownCategory):
		return "Unknown category."
	case errors.Is(err, ErrInvalidCategoryID):
		return "Invalid category."
	}
	return ""
}
