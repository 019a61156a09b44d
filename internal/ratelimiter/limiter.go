package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// ChannelLimiters holds one token bucket per outbound channel so a burst of
// submissions cannot exceed a provider's send rate. Burst equals the rate.
type ChannelLimiters struct {
	limiters map[string]*rate.Limiter
}

// New creates a limiter of ratePerSec tokens per second for each named channel.
func New(ratePerSec int, channels ...string) *ChannelLimiters {
	limiters := make(map[string]*rate.Limiter, len(channels))
	for _, ch := range channels {
		limiters[ch] = rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)
	}
	return &ChannelLimiters{limiters: limiters}
}

// Wait blocks until the channel's limiter grants a token. Channels that were
// not registered are not limited. The error is non-nil only when ctx ends
// (or its deadline is too close) before a token is available.
func (cl *ChannelLimiters) Wait(ctx context.Context, channel string) error {
	l, ok := cl.limiters[channel]
	if !ok {
		return nil
	}
	return l.Wait(ctx)
}
