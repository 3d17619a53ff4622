package entities

import "errors"

var (
	// ErrPostNotFound is returned when no post exists for a slug
	ErrPostNotFound = errors.New("post not found")

	// ErrPostAlreadyExists is returned when a slug is already taken
	ErrPostAlreadyExists = errors.New("post already exists")

	// ErrMalformedSubmission is returned when a form submission does not carry
	// title, slug and markdown as string values
	ErrMalformedSubmission = errors.New("form not submitted correctly")

	// ErrUnauthenticated is returned when a request carries no valid session
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when a signed-in user is not an admin
	ErrForbidden = errors.New("admin access required")

	// ErrInvalidCredentials is returned when an email/password pair does not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when no user exists for an id or email
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when an email is already registered
	ErrUserAlreadyExists = errors.New("user already exists")
)
