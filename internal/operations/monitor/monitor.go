// Package monitor polls a single in-flight server-side copy until it
// reaches a terminal state or the wait budget runs out.
//
// The poll loop is a cancellable bounded wait: the interval, total budget,
// and clock are all injectable so tests can run it deterministically.
// Timing out abandons observation only; the copy keeps running on the
// service side.
package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"github.com/ConveyInsight/blobcopy/blobtypes"
	"github.com/ConveyInsight/blobcopy/errors"
	"github.com/ConveyInsight/blobcopy/internal/blobapi"
	"github.com/ConveyInsight/blobcopy/internal/operations/initiate"
)

const (
	// DefaultPollInterval is the cadence of copy-status polls.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultWaitBudget bounds the total time spent watching one copy.
	// High enough that legitimate same-region copies always finish first.
	DefaultWaitBudget = 30 * time.Minute
)

// SystemClock is the wall clock.
type SystemClock struct{}

// Now implements blobtypes.Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep implements blobtypes.Clock. It returns early with the context's
// error when the context is cancelled.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ blobtypes.Clock = SystemClock{}

// Outcome is the monitor's terminal report for one copy.
type Outcome struct {
	// Status is Completed, Failed, or Pending (budget exhausted or
	// cancelled while the service still reported progress).
	Status blobtypes.CopyStatus

	// Elapsed is the copy duration. On success it is derived from the
	// service's copy-completion timestamp rather than wall clock at
	// return, which is more accurate under poll-latency jitter.
	Elapsed time.Duration

	// BytesCopied and TotalBytes are the last progress observed.
	BytesCopied int64
	TotalBytes  int64

	// Err carries the service's copy status description on failure.
	Err error
}

// Monitor watches one destination blob's copy operation.
type Monitor struct {
	interval time.Duration
	budget   time.Duration
	clock    blobtypes.Clock
}

// New creates a Monitor. Zero interval or budget select the defaults; a
// nil clock selects the system clock.
func New(interval, budget time.Duration, clock blobtypes.Clock) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if budget <= 0 {
		budget = DefaultWaitBudget
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Monitor{interval: interval, budget: budget, clock: clock}
}

// Wait polls dst's copy status until success, failure, cancellation, or
// budget exhaustion. Timeout and cancellation are reported conditions,
// not errors: the outcome then carries the last observed non-terminal
// state as StatusPending.
func (m *Monitor) Wait(
	ctx context.Context,
	dst blobapi.BlobAPI,
	handle *initiate.Handle,
	tracker blobtypes.ProgressTracker,
) Outcome {
	out := Outcome{Status: blobtypes.StatusPending}

	for {
		if m.clock.Now().Sub(handle.StartedAt) > m.budget {
			return out
		}

		props, err := dst.GetProperties(ctx, nil)
		if err == nil {
			status := blob.CopyStatusTypePending
			if props.CopyStatus != nil {
				status = *props.CopyStatus
			}

			switch status {
			case blob.CopyStatusTypeSuccess:
				out.Status = blobtypes.StatusCompleted
				out.Elapsed = m.elapsed(handle, props.CopyCompletionTime)
				if copied, total, ok := parseProgress(props.CopyProgress); ok {
					out.BytesCopied, out.TotalBytes = copied, total
				}
				if tracker != nil {
					tracker.Complete()
				}
				return out

			case blob.CopyStatusTypeFailed, blob.CopyStatusTypeAborted:
				out.Status = blobtypes.StatusFailed
				out.Elapsed = m.clock.Now().Sub(handle.StartedAt)
				desc := "no status description"
				if props.CopyStatusDescription != nil {
					desc = *props.CopyStatusDescription
				}
				out.Err = errors.NewError("monitor",
					fmt.Errorf("copy %s: %s", strings.ToLower(string(status)), desc))
				if tracker != nil {
					tracker.Error(out.Err)
				}
				return out

			default:
				if copied, total, ok := parseProgress(props.CopyProgress); ok {
					out.BytesCopied, out.TotalBytes = copied, total
					if tracker != nil {
						tracker.Update(copied, total)
					}
				}
			}
		}
		// A failed properties fetch is transient from the monitor's view;
		// the next tick retries within the same budget.

		if err := m.clock.Sleep(ctx, m.interval); err != nil {
			return out
		}
	}
}

// elapsed prefers the service's completion timestamp over local wall
// clock when it is available and sane.
func (m *Monitor) elapsed(handle *initiate.Handle, completion *time.Time) time.Duration {
	if completion != nil && completion.After(handle.StartedAt) {
		return completion.Sub(handle.StartedAt)
	}
	return m.clock.Now().Sub(handle.StartedAt)
}

// parseProgress decodes the service's "bytesCopied/totalBytes" progress
// string.
func parseProgress(progress *string) (copied, total int64, ok bool) {
	if progress == nil {
		return 0, 0, false
	}
	parts := strings.SplitN(*progress, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	copied, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return copied, total, true
}
