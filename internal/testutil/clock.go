package testutil

import (
	"context"
	"time"

	"github.com/ConveyInsight/blobcopy/blobtypes"
)

// FakeClock is a deterministic clock for poll-loop tests. Sleep advances
// the clock by the requested duration instead of blocking, so a bounded
// wait runs instantly while observing real elapsed-time arithmetic.
type FakeClock struct {
	now time.Time

	// SleepCalls counts Sleep invocations.
	SleepCalls int

	// SleepErr, when set, is returned by the next Sleep call. This
	// simulates cancellation mid-wait.
	SleepErr error
}

// NewFakeClock creates a FakeClock starting at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements blobtypes.Clock.
func (c *FakeClock) Now() time.Time { return c.now }

// Sleep implements blobtypes.Clock.
func (c *FakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.SleepCalls++
	if c.SleepErr != nil {
		return c.SleepErr
	}
	c.now = c.now.Add(d)
	return nil
}

// Advance moves the clock forward without counting as a sleep.
func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var _ blobtypes.Clock = (*FakeClock)(nil)
