// Package compare decides whether a source and destination blob already
// hold the same content, to support skip-if-unchanged semantics.
//
// The comparison is metadata-only: Content-MD5 plus content length, one
// properties fetch per side, no retries. Any failure to fetch properties
// (missing blob, transient service error) makes the pair non-identical,
// so the engine copies rather than silently skipping.
package compare

import (
	"bytes"
	"context"

	"github.com/ConveyInsight/blobcopy/internal/blobapi"
)

// Comparator determines whether two blobs are content-identical.
type Comparator interface {
	// Identical reports whether src and dst exist and hold the same
	// content checksum and byte length.
	Identical(ctx context.Context, src, dst blobapi.BlobAPI) bool
}

// ChecksumComparator compares blobs by Content-MD5 and content length.
// Both must match exactly; a side with no stored MD5 is treated as
// non-identical.
type ChecksumComparator struct{}

// NewChecksumComparator creates the default comparator.
func NewChecksumComparator() *ChecksumComparator {
	return &ChecksumComparator{}
}

// Identical implements the Comparator interface.
func (c *ChecksumComparator) Identical(ctx context.Context, src, dst blobapi.BlobAPI) bool {
	srcProps, err := src.GetProperties(ctx, nil)
	if err != nil {
		return false
	}

	dstProps, err := dst.GetProperties(ctx, nil)
	if err != nil {
		return false
	}

	if len(srcProps.ContentMD5) == 0 || len(dstProps.ContentMD5) == 0 {
		return false
	}
	if !bytes.Equal(srcProps.ContentMD5, dstProps.ContentMD5) {
		return false
	}

	if srcProps.ContentLength == nil || dstProps.ContentLength == nil {
		return false
	}
	return *srcProps.ContentLength == *dstProps.ContentLength
}
