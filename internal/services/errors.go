package services

import "errors"

var (
	// ErrUnauthenticated covers every reason a session token is not accepted.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned for unknown users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrRegistrationFailed is returned when registration fails for any other reason.
	ErrRegistrationFailed = errors.New("failed to create new user")
)
