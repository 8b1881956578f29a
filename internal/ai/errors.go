package ai

import "errors"

// Sentinel errors shared by all narrator providers so callers can branch on
// failure class without knowing the backend.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)
