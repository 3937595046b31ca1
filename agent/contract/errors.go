package contract

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrValidation      = errors.New("validation failed")
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
)
