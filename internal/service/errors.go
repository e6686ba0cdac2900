package service

import "errors"

var (
	// ErrInvalidCredentials is returned for any token issue failure so
	// callers cannot tell which factor was wrong.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")

	// ErrInvalidToken is returned when a bearer token cannot be resolved.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound covers both missing rows and rows owned by another
	// user; the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	ErrEmailRequired     = errors.New("email address is required")
	ErrEmailInvalid      = errors.New("enter a valid email address")
	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrUnknownTag        = errors.New("one or more tag ids do not exist")
	ErrUnknownIngredient = errors.New("one or more ingredient ids do not exist")
	ErrNotAnImage        = errors.New("upload a valid image")
)
