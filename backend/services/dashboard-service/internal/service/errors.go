package service

import (
	"errors"

	"evdash/backend/services/dashboard-service/internal/repository"
)

var (
	// ErrStationNotFound is returned when a station id does not resolve.
	ErrStationNotFound = repository.ErrStationNotFound
	// ErrSessionNotFound is returned when a session id does not resolve.
	ErrSessionNotFound = repository.ErrSessionNotFound
	// ErrDuplicateSessionCode is returned when a session code is already taken.
	ErrDuplicateSessionCode = repository.ErrDuplicateSessionCode
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// ValidationError describes a request that was rejected before reaching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

const msgMissingFields = "Missing required fields"
