package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMissingAPIKey is returned for every call when no credential was configured.
var ErrMissingAPIKey = errors.New("ai api key not configured")

// ErrEmptyCompletion means the provider answered without any choices.
var ErrEmptyCompletion = errors.New("ai returned no choices")
