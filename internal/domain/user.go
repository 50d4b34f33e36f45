package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNoUsers             = errors.New("no users found")
	ErrUserNotCreated      = errors.New("user not created")
	ErrUserNotUpdated      = errors.New("user not updated")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserAlreadyActive   = errors.New("user is already active")
	ErrUserAlreadyInactive = errors.New("user is already inactive")
	ErrWrongPassword       = errors.New("wrong password")
	ErrPasswordTooLong     = errors.New("password exceeds 72 bytes")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrEmailNotConfigured  = errors.New("diagnostic email recipient is not configured")
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
