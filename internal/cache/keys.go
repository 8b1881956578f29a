package cache

import (
	"fmt"
	"time"
)

// TimelineKey identifies a cached bucket series by input fingerprint and
// interval width. Two analyses of different inputs can never collide because
// the fingerprint is part of the key.
func TimelineKey(fingerprint string, width time.Duration) string {
	return fmt.Sprintf("timeline:%s:%d", fingerprint, int64(width))
}

// RateLimitKey identifies a rate-limit counter for one API key prefix.
func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
