package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	assert.False(t, IsRateLimitError(nil))
	assert.False(t, IsRateLimitError(errors.New("connection refused")))
	assert.True(t, IsRateLimitError(errors.New("Error 429, Message: quota exceeded")))
	assert.True(t, IsRateLimitError(errors.New("Status: RESOURCE_EXHAUSTED")))
}

func TestExtractRetryDelay(t *testing.T) {
	err := errors.New("Error 429, Message: rate limited. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED")
	delay := ExtractRetryDelay(err)
	assert.InDelta(t, 45.387, delay.Seconds(), 0.01)

	assert.Zero(t, ExtractRetryDelay(errors.New("no delay hint here")))
	assert.Zero(t, ExtractRetryDelay(nil))
}

func TestCalculateBackoff(t *testing.T) {
	cfg := NewDefaultRetryConfig()

	// No API hint: exponential from the initial backoff
	assert.Equal(t, 2*time.Second, cfg.CalculateBackoff(0, 0))
	assert.Equal(t, 4*time.Second, cfg.CalculateBackoff(1, 0))

	// API hint becomes the base, plus buffer
	assert.Equal(t, 11*time.Second, cfg.CalculateBackoff(0, 10*time.Second))

	// Capped at MaxBackoff
	assert.Equal(t, cfg.MaxBackoff, cfg.CalculateBackoff(10, 20*time.Second))
}
