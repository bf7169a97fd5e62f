package model

import "errors"

var (
	ErrValidation        = errors.New("validation error")           // 400
	ErrUnauthorized      = errors.New("unauthorized")               // 401
	ErrDraftNotFound     = errors.New("draft not found")            // 404
	ErrBridgeMissing     = errors.New("bridge product missing")     // 404
	ErrVariantNotFound   = errors.New("bridge variant not found")   // 404
	ErrValidationFailed  = errors.New("publish blocked by issues")  // 422
	ErrSourceUnavailable = errors.New("content source unavailable") // 502
)
