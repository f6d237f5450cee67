package model

import "errors"

// Common errors used across the application
var (
	// Settings errors
	ErrSettingsNotFound = errors.New("settings not found")
	ErrInvalidSettings  = errors.New("invalid settings")

	// Match errors
	ErrMatchNotFound     = errors.New("match not found")
	ErrInvalidTransition = errors.New("invalid match state transition")
	ErrMatchInProgress   = errors.New("match is in progress")
	ErrInvalidHostKey    = errors.New("invalid host key")

	// History errors
	ErrHistoryNotFound = errors.New("history item not found")
)
