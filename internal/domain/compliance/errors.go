package compliance

import "errors"

// ErrInvalidRequest indicates a caller mistake: unknown industry, neither
// image nor description supplied, or a malformed body. Never retried,
// never persisted.
var ErrInvalidRequest = errors.New("invalid compliance request")

// ErrPayloadTooLarge indicates the submitted image exceeds the size limit.
var ErrPayloadTooLarge = errors.New("image payload too large")

// ErrContractViolation indicates a backend produced a result that does not
// match the expected shape.
var ErrContractViolation = errors.New("backend contract violation")

// ErrNotFound indicates a record id with no stored row.
var ErrNotFound = errors.New("compliance record not found")
