package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateAccount occurs when an account number is already taken.
	ErrDuplicateAccount = errors.New("account number already exists")
)

// UserSafeMessage maps internal errors to messages safe for API clients.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrDuplicateAccount):
		return "That account number is already in use."
	case errors.Is(err, ErrValidation):
		return "The submitted data is invalid."
	default:
		return "Something went wrong. Please try again."
	}
}
