package service

import "errors"

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrSessionInvalid = errors.New("session invalid")

	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post")
)

// FieldError is a validation failure on a single form field. It unwraps to
// one of the sentinel errors above.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string { return e.Err.Error() + ": " + e.Field + ": " + e.Message }
func (e *FieldError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a user input problem that should be
// shown back to the user rather than logged as a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidUsername) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrInvalidPost)
}
