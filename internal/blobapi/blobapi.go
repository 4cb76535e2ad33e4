// Package blobapi defines interfaces over the Azure Blob Storage clients
// to enable testing and mocking.
package blobapi

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// BlobAPI is the per-blob surface consumed by the replication engine.
// This interface allows for mocking in tests and potential future
// implementations.
type BlobAPI interface {
	// URL returns the blob's canonical address.
	URL() string

	// GetProperties retrieves the blob's live attributes, including
	// content length, Content-MD5, and the state of any copy operation
	// targeting it.
	GetProperties(
		ctx context.Context,
		o *blob.GetPropertiesOptions,
	) (blob.GetPropertiesResponse, error)

	// StartCopyFromURL asks the service to begin an asynchronous
	// server-side copy from the given source URL into this blob.
	StartCopyFromURL(
		ctx context.Context,
		copySource string,
		o *blob.StartCopyFromURLOptions,
	) (blob.StartCopyFromURLResponse, error)

	// GetSASURL mints a signed URL for this blob with the given
	// permissions and expiry. Requires a shared key credential.
	GetSASURL(
		permissions sas.BlobPermissions,
		expiry time.Time,
		o *blob.GetSASURLOptions,
	) (string, error)
}

// Verify that the Azure blob client implements our interface
var _ BlobAPI = (*blob.Client)(nil)

// ContainerAPI is the per-container surface consumed by the replication
// engine.
type ContainerAPI interface {
	// Create creates the container. The service reports
	// ContainerAlreadyExists when it is present.
	Create(ctx context.Context, o *container.CreateOptions) (container.CreateResponse, error)

	// NewListBlobsFlatPager pages through a flat (non-hierarchical)
	// listing of every blob in the container.
	NewListBlobsFlatPager(
		o *container.ListBlobsFlatOptions,
	) *runtime.Pager[container.ListBlobsFlatResponse]

	// NewBlob returns the per-blob surface for the named blob.
	NewBlob(name string) BlobAPI
}

// AzureContainer adapts *container.Client to ContainerAPI. An adapter is
// needed because NewBlobClient returns the concrete SDK client type.
type AzureContainer struct {
	inner *container.Client
}

// NewAzureContainer wraps an SDK container client.
func NewAzureContainer(c *container.Client) *AzureContainer {
	return &AzureContainer{inner: c}
}

// Create implements ContainerAPI.
func (a *AzureContainer) Create(
	ctx context.Context,
	o *container.CreateOptions,
) (container.CreateResponse, error) {
	return a.inner.Create(ctx, o)
}

// NewListBlobsFlatPager implements ContainerAPI.
func (a *AzureContainer) NewListBlobsFlatPager(
	o *container.ListBlobsFlatOptions,
) *runtime.Pager[container.ListBlobsFlatResponse] {
	return a.inner.NewListBlobsFlatPager(o)
}

// NewBlob implements ContainerAPI.
func (a *AzureContainer) NewBlob(name string) BlobAPI {
	return a.inner.NewBlobClient(name)
}

var _ ContainerAPI = (*AzureContainer)(nil)

// NewDirectBlob returns the per-blob surface for a raw, possibly
// pre-signed blob URL. GetSASURL on the returned client fails because
// there is no shared key; direct sources use the URL verbatim instead.
func NewDirectBlob(rawURL string) (BlobAPI, error) {
	return blob.NewClientWithNoCredential(rawURL, nil)
}
