// Package blobcopy provides a high-level Go module for replicating blobs
// between Azure Blob Storage containers, potentially across accounts.
// It wraps the Azure SDK to drive the service's native asynchronous
// server-side copy: the destination pulls bytes directly from a source
// URL without routing through the client.
//
// The module emphasizes predictable batch behavior: per-blob outcomes are
// values, never exceptions, and one blob's failure never halts the rest
// of a container replication.
//
// Key features:
//   - Skip-if-identical comparison by content checksum and length
//   - Short-lived read delegations so private blobs can serve as copy
//     sources across accounts
//   - Bounded, cancellable polling with progress reporting
//   - Asynchronous mode that initiates copies without waiting
//   - Streaming per-blob results for whole-container replication
//
// Example usage:
//
//	r, err := blobcopy.New(
//	    blobtypes.AccountEndpoint("srcacct", srcKey, "data", ""),
//	    blobtypes.AccountEndpoint("dstacct", dstKey, "data", ""),
//	)
//	if err != nil {
//	    return err
//	}
//
//	for res := range r.CopyAll(ctx) {
//	    fmt.Printf("%s: %s\n", res.Blob, res.Status)
//	}
package blobcopy
