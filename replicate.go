package blobcopy

import (
	"context"
	"net/url"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/ConveyInsight/blobcopy/blobtypes"
	"github.com/ConveyInsight/blobcopy/errors"
	"github.com/ConveyInsight/blobcopy/internal/blobapi"
	"github.com/ConveyInsight/blobcopy/internal/operations/initiate"
	"github.com/ConveyInsight/blobcopy/internal/validation"
)

// CopyBlob replicates a single blob.
//
// name is the blob name on both sides (the source side is ignored for
// raw-URL sources). When empty, the destination endpoint's Blob field is
// used, then the source endpoint's, then, for raw-URL sources, the last
// path segment of the URL. A name that cannot be resolved is the one
// configuration error this method returns; everything that goes wrong
// after the first backend call is captured in the result instead.
//
// Behavior:
//   - Unless WithForce is given, source and destination are compared by
//     content checksum and length; identical pairs return StatusSkipped
//     with zero elapsed time and no copy is initiated.
//   - A pending-copy conflict on the destination returns StatusConflict
//     with zero elapsed time.
//   - With WithAsync, the method returns StatusPending immediately after
//     initiation without polling.
//   - Otherwise the copy is polled to completion within the wait budget;
//     running out of budget reports StatusPending, never an error.
//
// Returns:
//   - *blobtypes.CopyResult: The per-blob outcome. Result.Err carries
//     per-blob failure detail for StatusFailed.
//   - error: Non-nil only for configuration errors detected before any
//     backend call (unresolvable or invalid blob name).
//
// Example:
//
//	res, err := r.CopyBlob(ctx, "2024/report.pdf", blobcopy.WithForce())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %s in %.0fs\n", res.Blob, res.Status, res.Elapsed.Seconds())
func (r *Replicator) CopyBlob(
	ctx context.Context,
	name string,
	opts ...blobtypes.CopyOption,
) (*blobtypes.CopyResult, error) {
	cfg := &blobtypes.CopyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	name = r.resolveBlobName(name)
	if name == "" {
		return nil, errors.NewError("copyBlob", errors.ErrMissingBlobName).
			WithContainer(r.dest.Container).
			WithMessage("destination blob name must be supplied")
	}
	if err := validation.ValidateBlobName(name); err != nil {
		return nil, err
	}

	return r.copyResolved(ctx, name, cfg), nil
}

// CopyAll replicates every blob in the source container, strictly one at
// a time, streaming one result per listed blob in listing order. The
// order is whatever the service returns; treat it as backend-defined.
//
// One blob's failure or conflict never halts the rest of the batch. A
// raw-URL source has no listable container, so the stream degrades to a
// single CopyBlob result. The channel is closed when the batch finishes,
// the listing fails, or ctx is cancelled; consume it completely or cancel
// the context to avoid goroutine leaks.
//
// Example:
//
//	var total time.Duration
//	for res := range r.CopyAll(ctx) {
//	    total += res.Elapsed
//	    fmt.Printf("%-40s %s\n", res.Blob, res.Status)
//	}
func (r *Replicator) CopyAll(
	ctx context.Context,
	opts ...blobtypes.CopyOption,
) <-chan blobtypes.CopyResult {
	cfg := &blobtypes.CopyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	results := make(chan blobtypes.CopyResult, 16)

	go func() {
		defer close(results)

		// A caller may cancel the context and stop draining; every send
		// must bail out then or the goroutine leaks once the buffer
		// fills.
		emit := func(res blobtypes.CopyResult) bool {
			select {
			case results <- res:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if r.cfg.CreateContainer {
			if err := r.EnsureContainer(ctx); err != nil {
				emit(blobtypes.CopyResult{Status: blobtypes.StatusFailed, Err: err})
				return
			}
		}

		// A raw-URL source cannot be enumerated; copy the one blob it
		// denotes.
		if r.source.Direct() {
			name := r.resolveBlobName("")
			if name == "" {
				emit(blobtypes.CopyResult{
					Status: blobtypes.StatusFailed,
					Err: errors.NewError("copyAll", errors.ErrMissingBlobName).
						WithMessage("destination blob name must be supplied for a raw-URL source"),
				})
				return
			}
			if err := validation.ValidateBlobName(name); err != nil {
				emit(blobtypes.CopyResult{Blob: name, Status: blobtypes.StatusFailed, Err: err})
				return
			}
			emit(*r.copyResolved(ctx, name, cfg))
			return
		}

		pager := r.srcContainer.NewListBlobsFlatPager(nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				emit(blobtypes.CopyResult{
					Status: blobtypes.StatusFailed,
					Err: errors.NewContainerError("copyAll", r.source.Container, err).
						WithMessage("failed to list source container"),
				})
				return
			}

			for _, item := range page.Segment.BlobItems {
				if item == nil || item.Name == nil {
					continue
				}

				select {
				case <-ctx.Done():
					return
				default:
				}

				if !emit(*r.copyResolved(ctx, *item.Name, cfg)) {
					return
				}
			}
		}
	}()

	return results
}

// EnsureContainer creates the destination container if it is missing.
// An existing container is not an error.
func (r *Replicator) EnsureContainer(ctx context.Context) error {
	_, err := r.dstContainer.Create(ctx, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return errors.NewContainerError("ensureContainer", r.dest.Container, err).
			WithMessage("failed to create destination container")
	}
	return nil
}

// copyResolved runs the compare / initiate / monitor pipeline for one
// already-validated blob name. Every outcome past this point is a result,
// not an error: per-blob failures must not abort a batch.
func (r *Replicator) copyResolved(
	ctx context.Context,
	name string,
	cfg *blobtypes.CopyConfig,
) *blobtypes.CopyResult {
	dst := r.dstContainer.NewBlob(name)

	if !cfg.Force {
		if r.comparator.Identical(ctx, r.sourceBlob(name), dst) {
			return &blobtypes.CopyResult{Blob: name, Status: blobtypes.StatusSkipped}
		}
	}

	startedAt := r.clock.Now()
	handle, err := r.initiator.Begin(ctx, r.copySource(name), dst, startedAt)
	if err != nil {
		if errors.IsCopyConflict(err) {
			return &blobtypes.CopyResult{Blob: name, Status: blobtypes.StatusConflict}
		}
		return &blobtypes.CopyResult{Blob: name, Status: blobtypes.StatusFailed, Err: err}
	}

	if cfg.Async {
		// The caller does not wait; the copy continues server-side.
		return &blobtypes.CopyResult{Blob: name, Status: blobtypes.StatusPending}
	}

	out := r.monitor.Wait(ctx, dst, handle, cfg.Tracker)
	return &blobtypes.CopyResult{
		Blob:        name,
		Status:      out.Status,
		Elapsed:     out.Elapsed,
		BytesCopied: out.BytesCopied,
		TotalBytes:  out.TotalBytes,
		Err:         out.Err,
	}
}

// sourceBlob returns the per-blob surface for the named source blob.
func (r *Replicator) sourceBlob(name string) blobapi.BlobAPI {
	if r.source.Direct() {
		return r.srcDirect
	}
	return r.srcContainer.NewBlob(name)
}

// copySource describes where the copied bytes come from for the named
// blob.
func (r *Replicator) copySource(name string) initiate.Source {
	if r.source.Direct() {
		return initiate.Source{RawURL: r.source.RawURL}
	}
	return initiate.Source{
		Blob:   r.srcContainer.NewBlob(name),
		Signed: r.source.AccountKey != "",
	}
}

// resolveBlobName picks the effective blob name for a single-blob copy.
func (r *Replicator) resolveBlobName(name string) string {
	if name != "" {
		return name
	}
	if r.dest.Blob != "" {
		return r.dest.Blob
	}
	if r.source.Blob != "" {
		return r.source.Blob
	}
	if r.source.Direct() {
		if u, err := url.Parse(r.source.RawURL); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" {
				return base
			}
		}
	}
	return ""
}
