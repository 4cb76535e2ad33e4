package blobcopy

import (
	"fmt"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/ConveyInsight/blobcopy/blobtypes"
	"github.com/ConveyInsight/blobcopy/errors"
	"github.com/ConveyInsight/blobcopy/internal/blobapi"
	"github.com/ConveyInsight/blobcopy/internal/operations/compare"
	"github.com/ConveyInsight/blobcopy/internal/operations/initiate"
	"github.com/ConveyInsight/blobcopy/internal/operations/monitor"
	"github.com/ConveyInsight/blobcopy/internal/validation"
)

// DefaultEndpointSuffix is the public-cloud storage DNS suffix.
const DefaultEndpointSuffix = "core.windows.net"

// Replicator copies blobs from a source endpoint into a destination
// container. Endpoints are immutable after construction, so distinct
// Replicator instances may run concurrently; a single instance processes
// blobs strictly one at a time.
type Replicator struct {
	// source and dest are the resolved endpoint descriptors
	source blobtypes.Endpoint
	dest   blobtypes.Endpoint

	// srcContainer addresses the source container; nil in raw-URL mode
	srcContainer blobapi.ContainerAPI

	// srcDirect addresses a raw-URL source; nil in account mode
	srcDirect blobapi.BlobAPI

	// dstContainer addresses the destination container
	dstContainer blobapi.ContainerAPI

	cfg *blobtypes.ReplicatorConfig

	clock      blobtypes.Clock
	comparator compare.Comparator
	initiator  *initiate.Initiator
	monitor    *monitor.Monitor
}

// New creates a Replicator for the given source and destination endpoints.
// The destination must be account-addressed: the engine has to be able to
// address it to start a copy and poll it, so a raw-URL destination is
// rejected.
//
// Example:
//
//	r, err := blobcopy.New(
//	    blobtypes.AccountEndpoint("srcacct", srcKey, "backups", ""),
//	    blobtypes.AccountEndpoint("dstacct", dstKey, "backups", ""),
//	    blobcopy.WithWaitBudget(15*time.Minute),
//	)
func New(source, dest blobtypes.Endpoint, opts ...blobtypes.Option) (*Replicator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validateEndpoints(source, dest); err != nil {
		return nil, err
	}

	r := newReplicator(source, dest, cfg)

	if source.Direct() {
		b, err := blobapi.NewDirectBlob(source.RawURL)
		if err != nil {
			return nil, errors.NewError("client initialization", err).
				WithMessage("invalid source URL")
		}
		r.srcDirect = b
	} else {
		c, err := newContainerClient(source, cfg.EndpointSuffix)
		if err != nil {
			return nil, errors.NewContainerError("client initialization", source.Container, err).
				WithMessage("failed to build source container client")
		}
		r.srcContainer = c
	}

	c, err := newContainerClient(dest, cfg.EndpointSuffix)
	if err != nil {
		return nil, errors.NewContainerError("client initialization", dest.Container, err).
			WithMessage("failed to build destination container client")
	}
	r.dstContainer = c

	return r, nil
}

// NewWithBackend creates a Replicator over custom backend implementations.
// This is primarily used for testing with mocked containers. src may be
// nil when source is a raw-URL endpoint.
func NewWithBackend(
	source, dest blobtypes.Endpoint,
	src, dst blobapi.ContainerAPI,
	opts ...blobtypes.Option,
) *Replicator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := newReplicator(source, dest, cfg)
	r.srcContainer = src
	r.dstContainer = dst
	return r
}

// newReplicator wires the engine components from a resolved config.
func newReplicator(source, dest blobtypes.Endpoint, cfg *blobtypes.ReplicatorConfig) *Replicator {
	clock := cfg.Clock
	if clock == nil {
		clock = monitor.SystemClock{}
	}

	return &Replicator{
		source:     source,
		dest:       dest,
		cfg:        cfg,
		clock:      clock,
		comparator: compare.NewChecksumComparator(),
		initiator:  initiate.New(cfg.SASValidity),
		monitor:    monitor.New(cfg.PollInterval, cfg.WaitBudget, clock),
	}
}

// defaultConfig returns the construction-time defaults.
func defaultConfig() *blobtypes.ReplicatorConfig {
	return &blobtypes.ReplicatorConfig{
		PollInterval:   monitor.DefaultPollInterval,
		WaitBudget:     monitor.DefaultWaitBudget,
		SASValidity:    initiate.DefaultSASValidity,
		EndpointSuffix: DefaultEndpointSuffix,
	}
}

// validateEndpoints enforces the endpoint roles before any backend call.
func validateEndpoints(source, dest blobtypes.Endpoint) error {
	if dest.Direct() {
		return errors.NewError("client initialization", errors.ErrInvalidEndpoint).
			WithMessage("a raw-URL endpoint cannot be a copy destination")
	}
	if err := validation.ValidateAccountName(dest.AccountName); err != nil {
		return err
	}
	if err := validation.ValidateContainerName(dest.Container); err != nil {
		return err
	}
	if dest.Blob != "" {
		if err := validation.ValidateBlobName(dest.Blob); err != nil {
			return err
		}
	}

	if source.Direct() {
		u, err := url.Parse(source.RawURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.NewError("client initialization", errors.ErrInvalidEndpoint).
				WithMessage("source URL must be absolute")
		}
		return nil
	}

	if err := validation.ValidateAccountName(source.AccountName); err != nil {
		return err
	}
	return validation.ValidateContainerName(source.Container)
}

// newContainerClient builds the SDK container client for an
// account-addressed endpoint. An empty account key selects anonymous
// access.
func newContainerClient(e blobtypes.Endpoint, suffix string) (blobapi.ContainerAPI, error) {
	containerURL := fmt.Sprintf("https://%s.blob.%s/%s", e.AccountName, suffix, e.Container)

	if e.AccountKey == "" {
		c, err := container.NewClientWithNoCredential(containerURL, nil)
		if err != nil {
			return nil, err
		}
		return blobapi.NewAzureContainer(c), nil
	}

	cred, err := azblob.NewSharedKeyCredential(e.AccountName, e.AccountKey)
	if err != nil {
		return nil, err
	}
	c, err := container.NewClientWithSharedKeyCredential(containerURL, cred, nil)
	if err != nil {
		return nil, err
	}
	return blobapi.NewAzureContainer(c), nil
}
