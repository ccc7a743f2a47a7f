package dto

import "time"

// RateLimitInfo is the outcome of a bucket check.
type RateLimitInfo struct {
	Allowed    bool       `json:"allowed"`
	Remaining  int        `json:"remaining"`
	RetryAfter int        `json:"retry_after,omitempty"`
	ResetTime  *time.Time `json:"reset_time,omitempty"`
}
