package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotCreator         = errors.New("user is not a creator")
	ErrForbidden          = errors.New("forbidden")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
)
