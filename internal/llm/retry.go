package llm

import "time"

// RetryConfig controls how chat requests are retried.
type RetryConfig struct {
	MaxRetries int           // attempts after the first request
	BaseDelay  time.Duration // delay before the first retry, doubled each attempt
	MaxDelay   time.Duration // ceiling for the backoff delay
}

// DefaultRetryConfig returns the retry defaults used when the settings
// store provides none.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   8 * time.Second,
	}
}

// ShouldRetry reports whether a response status code warrants a retry.
func ShouldRetry(statusCode int) bool {
	if statusCode == 429 {
		return true
	}
	return statusCode >= 500 && statusCode <= 599
}

// Backoff returns the delay before retry attempt n (0-based).
func (c RetryConfig) Backoff(attempt int) time.Duration {
	d := c.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}
