package apperrors

import "errors"

var (
	ErrAlreadyRunning       = errors.New("watchdog daemon already running")
	ErrNotRunning           = errors.New("watchdog daemon is not running")
	ErrConfirmationRequired = errors.New("recovery is destructive, confirmation required")
)
