// Package testutil provides shared test doubles for the replication
// engine: func-field mocks for the blob and container surfaces, a
// deterministic clock, a recording progress tracker, and builders for
// SDK response values.
package testutil

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/ConveyInsight/blobcopy/internal/blobapi"
)

// MockBlob implements blobapi.BlobAPI with injectable function fields.
// Unset fields fall back to benign defaults so tests only wire what
// they assert on.
type MockBlob struct {
	// URLValue is returned by URL when non-empty.
	URLValue string

	GetPropertiesFunc    func(ctx context.Context, options *blob.GetPropertiesOptions) (blob.GetPropertiesResponse, error)
	StartCopyFromURLFunc func(ctx context.Context, copySource string, options *blob.StartCopyFromURLOptions) (blob.StartCopyFromURLResponse, error)
	GetSASURLFunc        func(permissions sas.BlobPermissions, expiry time.Time, options *blob.GetSASURLOptions) (string, error)

	// Call counters for interaction assertions.
	GetPropertiesCalls    int
	StartCopyFromURLCalls int
	GetSASURLCalls        int

	// LastCopySource records the source URL of the most recent
	// StartCopyFromURL call.
	LastCopySource string
}

// URL implements blobapi.BlobAPI.
func (m *MockBlob) URL() string {
	if m.URLValue != "" {
		return m.URLValue
	}
	return "https://mockaccount.blob.core.windows.net/mockcontainer/mockblob"
}

// GetProperties implements blobapi.BlobAPI.
func (m *MockBlob) GetProperties(
	ctx context.Context,
	options *blob.GetPropertiesOptions,
) (blob.GetPropertiesResponse, error) {
	m.GetPropertiesCalls++
	if m.GetPropertiesFunc != nil {
		return m.GetPropertiesFunc(ctx, options)
	}
	return blob.GetPropertiesResponse{}, nil
}

// StartCopyFromURL implements blobapi.BlobAPI.
func (m *MockBlob) StartCopyFromURL(
	ctx context.Context,
	copySource string,
	options *blob.StartCopyFromURLOptions,
) (blob.StartCopyFromURLResponse, error) {
	m.StartCopyFromURLCalls++
	m.LastCopySource = copySource
	if m.StartCopyFromURLFunc != nil {
		return m.StartCopyFromURLFunc(ctx, copySource, options)
	}
	return blob.StartCopyFromURLResponse{
		CopyID:     to.Ptr("mock-copy-id"),
		CopyStatus: to.Ptr(blob.CopyStatusTypePending),
	}, nil
}

// GetSASURL implements blobapi.BlobAPI.
func (m *MockBlob) GetSASURL(
	permissions sas.BlobPermissions,
	expiry time.Time,
	options *blob.GetSASURLOptions,
) (string, error) {
	m.GetSASURLCalls++
	if m.GetSASURLFunc != nil {
		return m.GetSASURLFunc(permissions, expiry, options)
	}
	return m.URL() + "?sig=mock", nil
}

var _ blobapi.BlobAPI = (*MockBlob)(nil)

// MockContainer implements blobapi.ContainerAPI with injectable function
// fields. By default NewBlob hands out one shared MockBlob per name so a
// test can inspect calls made through the container.
type MockContainer struct {
	CreateFunc                func(ctx context.Context, options *container.CreateOptions) (container.CreateResponse, error)
	NewListBlobsFlatPagerFunc func(options *container.ListBlobsFlatOptions) *runtime.Pager[container.ListBlobsFlatResponse]
	NewBlobFunc               func(name string) blobapi.BlobAPI

	CreateCalls int

	blobs map[string]*MockBlob
}

// Create implements blobapi.ContainerAPI.
func (m *MockContainer) Create(
	ctx context.Context,
	options *container.CreateOptions,
) (container.CreateResponse, error) {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, options)
	}
	return container.CreateResponse{}, nil
}

// NewListBlobsFlatPager implements blobapi.ContainerAPI. The default is
// an empty listing.
func (m *MockContainer) NewListBlobsFlatPager(
	options *container.ListBlobsFlatOptions,
) *runtime.Pager[container.ListBlobsFlatResponse] {
	if m.NewListBlobsFlatPagerFunc != nil {
		return m.NewListBlobsFlatPagerFunc(options)
	}
	return ListPager()
}

// NewBlob implements blobapi.ContainerAPI.
func (m *MockContainer) NewBlob(name string) blobapi.BlobAPI {
	if m.NewBlobFunc != nil {
		return m.NewBlobFunc(name)
	}
	return m.Blob(name)
}

// Blob returns the memoized MockBlob for name, creating it on first use.
// Tests use this to pre-seed per-blob behavior and to assert on calls
// afterwards.
func (m *MockContainer) Blob(name string) *MockBlob {
	if m.blobs == nil {
		m.blobs = make(map[string]*MockBlob)
	}
	b, ok := m.blobs[name]
	if !ok {
		b = &MockBlob{}
		m.blobs[name] = b
	}
	return b
}

var _ blobapi.ContainerAPI = (*MockContainer)(nil)

// ListPager builds a flat-listing pager that serves the given pages of
// blob names in order. With no pages it serves a single empty page.
func ListPager(pages ...[]string) *runtime.Pager[container.ListBlobsFlatResponse] {
	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	next := 0
	return runtime.NewPager(runtime.PagingHandler[container.ListBlobsFlatResponse]{
		More: func(container.ListBlobsFlatResponse) bool {
			return next < len(pages)
		},
		Fetcher: func(context.Context, *container.ListBlobsFlatResponse) (container.ListBlobsFlatResponse, error) {
			names := pages[next]
			next++

			items := make([]*container.BlobItem, 0, len(names))
			for _, name := range names {
				items = append(items, &container.BlobItem{Name: to.Ptr(name)})
			}

			var resp container.ListBlobsFlatResponse
			resp.Segment = &container.BlobFlatListSegment{BlobItems: items}
			return resp, nil
		},
	})
}

// FailingListPager builds a pager whose first fetch returns err.
func FailingListPager(err error) *runtime.Pager[container.ListBlobsFlatResponse] {
	return runtime.NewPager(runtime.PagingHandler[container.ListBlobsFlatResponse]{
		More: func(container.ListBlobsFlatResponse) bool { return false },
		Fetcher: func(context.Context, *container.ListBlobsFlatResponse) (container.ListBlobsFlatResponse, error) {
			return container.ListBlobsFlatResponse{}, err
		},
	})
}
