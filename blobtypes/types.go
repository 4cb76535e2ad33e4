// Package blobtypes provides shared type definitions for the blobcopy module.
package blobtypes

import (
	"context"
	"time"
)

// CopyStatus describes the terminal disposition of a single blob copy.
type CopyStatus string

// Predefined copy statuses
const (
	// StatusSkipped means source and destination were already identical
	// and no copy was initiated.
	StatusSkipped CopyStatus = "Skipped"

	// StatusCompleted means the server-side copy reached success within
	// the wait budget.
	StatusCompleted CopyStatus = "Completed"

	// StatusPending means the copy was initiated but not observed to
	// complete: either the caller asked for asynchronous mode, or the
	// wait budget ran out while the service still reported progress.
	StatusPending CopyStatus = "Pending"

	// StatusConflict means the destination blob already had a copy
	// operation pending and the service refused to start another.
	StatusConflict CopyStatus = "Conflict"

	// StatusFailed means initiation or the copy itself failed.
	StatusFailed CopyStatus = "Failed"
)

// Endpoint identifies one side of a replication: a storage account and
// container, or a raw (optionally pre-signed) blob URL.
//
// An Endpoint is pure data and is never written to after construction.
// Build one with AccountEndpoint or URLEndpoint.
type Endpoint struct {
	// AccountName is the storage account. Required unless RawURL is set.
	AccountName string

	// AccountKey is the shared key credential. Empty means anonymous
	// (public) access.
	AccountKey string

	// Container is the container name. Required unless RawURL is set.
	Container string

	// Blob is an optional blob name. Used as the default name for
	// single-blob copies; ignored during container replication, where
	// the listed name is passed explicitly per item.
	Blob string

	// RawURL is a fully qualified blob URL, optionally carrying a SAS.
	// When set it takes precedence over the account fields and is used
	// verbatim as the copy source. A RawURL endpoint can only ever be a
	// source: the engine must be able to address a destination to start
	// and poll a copy.
	RawURL string
}

// AccountEndpoint builds an account-addressed Endpoint. key may be empty
// for anonymous access; blob may be empty in container mode.
func AccountEndpoint(account, key, container, blob string) Endpoint {
	return Endpoint{
		AccountName: account,
		AccountKey:  key,
		Container:   container,
		Blob:        blob,
	}
}

// URLEndpoint builds an Endpoint addressed by a raw blob URL.
func URLEndpoint(rawURL string) Endpoint {
	return Endpoint{RawURL: rawURL}
}

// Direct reports whether the endpoint is addressed by a raw URL rather
// than account/container fields.
func (e Endpoint) Direct() bool {
	return e.RawURL != ""
}

// CopyResult is the per-blob outcome of a replication. It is created once
// per blob per invocation and is immutable once returned.
type CopyResult struct {
	// Blob is the blob name this result refers to.
	Blob string

	// Status is the terminal disposition of the copy.
	Status CopyStatus

	// Elapsed is how long the copy took. On completion it is derived
	// from the service's own copy-completion timestamp rather than
	// wall clock at return. Zero for skipped, conflicting, and
	// asynchronous copies.
	Elapsed time.Duration

	// BytesCopied and TotalBytes are the last progress observed from
	// the service, when available.
	BytesCopied int64
	TotalBytes  int64

	// Err carries per-blob failure detail. A non-nil Err never aborts a
	// container batch; it is reported here instead.
	Err error
}

// ProgressTracker receives copy progress during monitoring.
// Implementations can surface real-time progress while a server-side
// copy is pending.
type ProgressTracker interface {
	// Update is called on each poll that observes a pending copy.
	Update(bytesCopied, totalBytes int64)

	// Complete is called when the copy reaches success.
	Complete()

	// Error is called when the copy fails or is aborted by the service.
	Error(err error)
}

// Clock abstracts time for the poll loop so tests can run deterministic
// waits. Sleep must return early with the context's error when the
// context is cancelled.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// Option configures a Replicator at construction time.
type Option func(*ReplicatorConfig)

// ReplicatorConfig holds construction-time configuration assembled from
// Option values.
type ReplicatorConfig struct {
	// PollInterval is the cadence of copy-status polls.
	PollInterval time.Duration

	// WaitBudget bounds the total time spent polling one copy.
	WaitBudget time.Duration

	// SASValidity is the lifetime of read delegations minted for
	// account-addressed sources.
	SASValidity time.Duration

	// EndpointSuffix is the storage DNS suffix, for sovereign clouds.
	EndpointSuffix string

	// Clock overrides the wall clock, for tests.
	Clock Clock

	// CreateContainer makes container replication create the
	// destination container first if it is missing.
	CreateContainer bool
}

// CopyOption configures a single CopyBlob or CopyAll invocation.
type CopyOption func(*CopyConfig)

// CopyConfig holds per-invocation configuration assembled from
// CopyOption values.
type CopyConfig struct {
	// Force skips the identical-content check and always copies.
	Force bool

	// Async returns immediately after initiating the copy, without
	// polling for completion.
	Async bool

	// Tracker receives progress updates while polling.
	Tracker ProgressTracker
}
