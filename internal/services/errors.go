package services

import "errors"

// Common service errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidPassword      = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("not authorized")
	ErrInvalidState         = errors.New("invalid state transition")
	ErrDuplicate            = errors.New("duplicate record")
	ErrUnitOccupied         = errors.New("unit already has an active contract")
	ErrConfirmationRequired = errors.New("confirmation required for destructive operation")
	ErrEditWindowClosed     = errors.New("edit window for this entry has closed")
	ErrValidation           = errors.New("validation failed")
)
