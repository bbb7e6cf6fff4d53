package services

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRole            = errors.New("role must be coach or student")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrCoachNotFound          = errors.New("coach not found")
	ErrCoachInactive          = errors.New("coach is not active")
	ErrInvalidDateRange       = errors.New("end date must be on or after start date")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyExpanded        = errors.New("assignment already has generated days")
	ErrStorageUnavailable     = errors.New("storage service is not configured")
)
