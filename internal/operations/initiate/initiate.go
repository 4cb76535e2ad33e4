// Package initiate starts server-side copy operations.
//
// A copy source is either a caller-supplied raw URL (used verbatim, it may
// carry its own SAS) or an account-resident blob, for which a short-lived
// read-only delegation is minted so a private blob can serve as the source
// of a cross-account copy.
package initiate

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/ConveyInsight/blobcopy/errors"
	"github.com/ConveyInsight/blobcopy/internal/blobapi"
)

// DefaultSASValidity is how long minted read delegations remain usable.
// Long enough for the service to fetch the first bytes of any source; the
// copy itself keeps running after expiry.
const DefaultSASValidity = 10 * time.Minute

// Source describes where the copied bytes come from.
type Source struct {
	// RawURL, when non-empty, is used verbatim as the copy source.
	RawURL string

	// Blob is the account-resident source, used when RawURL is empty.
	Blob blobapi.BlobAPI

	// Signed marks whether Blob's account has a shared key available,
	// i.e. whether a read delegation can be minted for it. Unsigned
	// sources must be publicly readable.
	Signed bool
}

// Handle identifies an in-flight server-side copy.
type Handle struct {
	// CopyID is the service-assigned identifier of the pending copy.
	CopyID string

	// StartedAt is when the copy was initiated, used to compute elapsed
	// time against the service's completion timestamp.
	StartedAt time.Time
}

// Initiator starts server-side copies onto destination blobs.
type Initiator struct {
	sasValidity time.Duration
}

// New creates an Initiator minting read delegations with the given
// validity; zero means DefaultSASValidity.
func New(sasValidity time.Duration) *Initiator {
	if sasValidity <= 0 {
		sasValidity = DefaultSASValidity
	}
	return &Initiator{sasValidity: sasValidity}
}

// Begin resolves the source to a readable URL and asks the destination to
// start an asynchronous server-side copy from it.
//
// A service conflict (another copy already pending on dst) is returned as
// ErrCopyConflict so the caller can record it and move on; it is not a
// hard failure. Any other error fails this single copy.
func (i *Initiator) Begin(
	ctx context.Context,
	source Source,
	dst blobapi.BlobAPI,
	startedAt time.Time,
) (*Handle, error) {
	srcURL, err := i.resolveSourceURL(source, startedAt)
	if err != nil {
		return nil, err
	}

	resp, err := dst.StartCopyFromURL(ctx, srcURL, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.PendingCopyOperation) {
			return nil, errors.NewError("beginCopy", errors.ErrCopyConflict)
		}
		return nil, errors.NewError("beginCopy", err).
			WithMessage("failed to start server-side copy")
	}

	handle := &Handle{StartedAt: startedAt}
	if resp.CopyID != nil {
		handle.CopyID = *resp.CopyID
	}
	return handle, nil
}

// resolveSourceURL produces the URL the destination will pull from.
func (i *Initiator) resolveSourceURL(source Source, now time.Time) (string, error) {
	if source.RawURL != "" {
		return source.RawURL, nil
	}

	if source.Blob == nil {
		return "", errors.NewError("beginCopy", errors.ErrInvalidInput).
			WithMessage("no copy source supplied")
	}

	// Anonymous sources must be publicly readable; the bare URL is all
	// we can offer the service.
	if !source.Signed {
		return source.Blob.URL(), nil
	}

	signedURL, err := source.Blob.GetSASURL(
		sas.BlobPermissions{Read: true},
		now.Add(i.sasValidity),
		nil,
	)
	if err != nil {
		return "", errors.NewError("beginCopy", err).
			WithMessage("failed to mint read delegation for source")
	}
	return signedURL, nil
}
