package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/joeyedi1/eclandingpage/internal/ratelimiter"
)

func TestChannelLimiters_BurstThenWait(t *testing.T) {
	cl := ratelimiter.New(2, "telegram")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := cl.Wait(ctx, "telegram"); err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
	}

	// The bucket is empty; a deadline shorter than the refill interval fails fast.
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := cl.Wait(short, "telegram"); err == nil {
		t.Fatal("expected an error once the burst is spent")
	}
}

func TestChannelLimiters_UnknownChannelIsUnlimited(t *testing.T) {
	cl := ratelimiter.New(1, "telegram")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cl.Wait(ctx, "carrier-pigeon"); err != nil {
		t.Fatalf("expected no limit for an unregistered channel, got %v", err)
	}
}

func TestChannelLimiters_Independent(t *testing.T) {
	cl := ratelimiter.New(1, "telegram", "twilio")
	ctx := context.Background()

	if err := cl.Wait(ctx, "telegram"); err != nil {
		t.Fatal(err)
	}
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := cl.Wait(short, "twilio"); err != nil {
		t.Fatalf("twilio has its own bucket, got %v", err)
	}
}
