package core

import "errors"

// Parse-time errors. Callers test with errors.Is; parsers wrap them with context.
var (
	ErrFormat = errors.New("malformed input")
	ErrRange  = errors.New("coordinate out of range")
)

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidPlacement  = "INVALID_PLACEMENT"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
)
