package blobcopy

import (
	"time"

	"github.com/ConveyInsight/blobcopy/blobtypes"
)

// WithPollInterval sets the cadence of copy-status polls.
// Default is 500ms. The cadence is a tuning parameter, not a contract.
func WithPollInterval(interval time.Duration) blobtypes.Option {
	return func(c *blobtypes.ReplicatorConfig) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

// WithWaitBudget bounds the total time spent polling a single copy.
// Default is 30 minutes. Exhausting the budget abandons observation, not
// the copy itself: the result reports the last observed status.
func WithWaitBudget(budget time.Duration) blobtypes.Option {
	return func(c *blobtypes.ReplicatorConfig) {
		if budget > 0 {
			c.WaitBudget = budget
		}
	}
}

// WithSASValidity sets the lifetime of read delegations minted for
// account-addressed sources. Default is 10 minutes.
func WithSASValidity(validity time.Duration) blobtypes.Option {
	return func(c *blobtypes.ReplicatorConfig) {
		if validity > 0 {
			c.SASValidity = validity
		}
	}
}

// WithEndpointSuffix sets the storage DNS suffix, for sovereign clouds.
// Default is "core.windows.net".
func WithEndpointSuffix(suffix string) blobtypes.Option {
	return func(c *blobtypes.ReplicatorConfig) {
		if suffix != "" {
			c.EndpointSuffix = suffix
		}
	}
}

// WithClock overrides the wall clock used by the poll loop.
// This allows deterministic waits in tests.
func WithClock(clock blobtypes.Clock) blobtypes.Option {
	return func(c *blobtypes.ReplicatorConfig) {
		c.Clock = clock
	}
}

// WithCreateContainer makes container replication create the destination
// container first if it is missing.
func WithCreateContainer() blobtypes.Option {
	return func(c *blobtypes.ReplicatorConfig) {
		c.CreateContainer = true
	}
}

// WithForce skips the identical-content check and always copies.
func WithForce() blobtypes.CopyOption {
	return func(c *blobtypes.CopyConfig) {
		c.Force = true
	}
}

// WithAsync returns immediately after initiating each copy, without
// polling for completion. Results then report StatusPending with zero
// elapsed time.
func WithAsync() blobtypes.CopyOption {
	return func(c *blobtypes.CopyConfig) {
		c.Async = true
	}
}

// WithProgress sets a progress tracker that receives updates while a
// copy is pending.
func WithProgress(tracker blobtypes.ProgressTracker) blobtypes.CopyOption {
	return func(c *blobtypes.CopyConfig) {
		c.Tracker = tracker
	}
}
