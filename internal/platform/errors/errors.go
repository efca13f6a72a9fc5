package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupported      = errors.New("unsupported on this platform")
	ErrPermissionDenied = errors.New("permission denied")
)
