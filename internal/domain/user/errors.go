package user

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailRequired is returned when the email is missing
	ErrEmailRequired = errors.New("email is required")

	// ErrInvalidEmail is returned when the email does not parse
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrNameRequired is returned when the name is missing
	ErrNameRequired = errors.New("name is required")

	// ErrEmailAlreadyExists is returned when the email is taken
	ErrEmailAlreadyExists = errors.New("email already registered")
)
