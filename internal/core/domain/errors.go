package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUserExists          = errors.New("a user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrTherapistNotFound   = errors.New("therapist not found")
	ErrChildNotFound       = errors.New("child not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("access forbidden")
	ErrTherapistHasClients = errors.New("therapist still has assigned clients")
)
