package config

import "errors"

// Sentinel errors for internal use.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidDigest    = errors.New("invalid transaction digest")
	ErrNotConnected     = errors.New("wallet not connected")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrFileTooLarge     = errors.New("evidence file exceeds maximum size")
)

// Error codes — shared with the dev API via JSON error responses.
const (
	ErrorValidation      = "ERROR_VALIDATION"
	ErrorUnauthorized    = "ERROR_UNAUTHORIZED"
	ErrorForbidden       = "ERROR_FORBIDDEN"
	ErrorNotFound        = "ERROR_NOT_FOUND"
	ErrorAlreadyVerified = "ERROR_ALREADY_VERIFIED"
	ErrorDatabase        = "ERROR_DATABASE"
	ErrorFileTooLarge    = "ERROR_FILE_TOO_LARGE"
)
