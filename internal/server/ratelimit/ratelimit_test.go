package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_PerIPIsolation(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)

	// First request from each IP passes, second from the same IP is limited.
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestIPRateLimiter_BurstAllowance(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d within burst should pass", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestIPRateLimiter_SameLimiterReturned(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)

	first := limiter.GetLimiter("10.0.0.1")
	second := limiter.GetLimiter("10.0.0.1")

	assert.Same(t, first, second)
}

func TestDailyQuota_Exhaustion(t *testing.T) {
	quota := NewDailyQuota(2)

	assert.True(t, quota.Allow())
	assert.True(t, quota.Allow())
	assert.False(t, quota.Allow())
	assert.Equal(t, int64(0), quota.Remaining())
}

func TestDailyQuota_Remaining(t *testing.T) {
	quota := NewDailyQuota(5)

	quota.Allow()
	quota.Allow()

	assert.Equal(t, int64(3), quota.Remaining())
}
