package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrUnconfigured indicates no credential was available at call time.
var ErrUnconfigured = errors.New("ai backend not configured")

// ErrUnavailable indicates a network-layer or backend error.
var ErrUnavailable = errors.New("ai backend unavailable")

// ErrTimeout indicates the bounded polling loop was exhausted before the
// backend finished the job.
var ErrTimeout = errors.New("ai analysis timed out")

// ErrMalformedReply indicates no usable JSON object could be located in
// the backend's reply.
var ErrMalformedReply = errors.New("ai reply malformed")
