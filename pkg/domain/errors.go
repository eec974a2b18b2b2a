package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when creating a session under a taken ID.
	ErrSessionExists = errors.New("session already exists")
)
