package blobcopy

import (
	"context"
	stderrors "errors"
	"fmt"
	goruntime "runtime"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConveyInsight/blobcopy/blobtypes"
	"github.com/ConveyInsight/blobcopy/errors"
	"github.com/ConveyInsight/blobcopy/internal/testutil"
)

var (
	md5Alpha = []byte{0x11, 0x22, 0x33, 0x44}
	md5Beta  = []byte{0x55, 0x66, 0x77, 0x88}

	testStart = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
)

// testReplicator wires a Replicator over mock containers with a fake
// clock. Callers seed per-blob behavior through the returned mocks.
func testReplicator(opts ...blobtypes.Option) (*Replicator, *testutil.MockContainer, *testutil.MockContainer) {
	src := &testutil.MockContainer{}
	dst := &testutil.MockContainer{}
	opts = append([]blobtypes.Option{WithClock(testutil.NewFakeClock(testStart))}, opts...)
	r := NewWithBackend(
		blobtypes.AccountEndpoint("srcacct", "srckey", "data", ""),
		blobtypes.AccountEndpoint("dstacct", "dstkey", "data", ""),
		src, dst,
		opts...,
	)
	return r, src, dst
}

func seedProps(b *testutil.MockBlob, resp blob.GetPropertiesResponse) {
	b.GetPropertiesFunc = func(context.Context, *blob.GetPropertiesOptions) (blob.GetPropertiesResponse, error) {
		return resp, nil
	}
}

func seedPropsSequence(b *testutil.MockBlob, seq *testutil.PropsSequence) {
	b.GetPropertiesFunc = func(context.Context, *blob.GetPropertiesOptions) (blob.GetPropertiesResponse, error) {
		return seq.Next()
	}
}

func conflictOnCopy(b *testutil.MockBlob) {
	b.StartCopyFromURLFunc = func(context.Context, string, *blob.StartCopyFromURLOptions) (blob.StartCopyFromURLResponse, error) {
		return blob.StartCopyFromURLResponse{}, &azcore.ResponseError{
			ErrorCode: string(bloberror.PendingCopyOperation),
		}
	}
}

func TestCopyBlob_SkipsIdenticalWithoutInitiating(t *testing.T) {
	r, src, dst := testReplicator()
	seedProps(src.Blob("report.pdf"), testutil.BlobProps(md5Alpha, 1024))
	seedProps(dst.Blob("report.pdf"), testutil.BlobProps(md5Alpha, 1024))

	res, err := r.CopyBlob(context.Background(), "report.pdf")

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusSkipped, res.Status)
	assert.Equal(t, "report.pdf", res.Blob)
	assert.Zero(t, res.Elapsed)
	assert.Zero(t, dst.Blob("report.pdf").StartCopyFromURLCalls)
}

func TestCopyBlob_ForceInitiatesDespiteIdenticalContent(t *testing.T) {
	r, src, dst := testReplicator()
	seedProps(src.Blob("report.pdf"), testutil.BlobProps(md5Alpha, 1024))
	seedProps(dst.Blob("report.pdf"), testutil.CopySuccess("1024/1024", testStart.Add(3*time.Second)))

	res, err := r.CopyBlob(context.Background(), "report.pdf", WithForce())

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusCompleted, res.Status)
	assert.Equal(t, 3*time.Second, res.Elapsed)
	assert.Equal(t, 1, dst.Blob("report.pdf").StartCopyFromURLCalls)
	assert.Zero(t, src.Blob("report.pdf").GetPropertiesCalls, "force must not compare")
}

func TestCopyBlob_SignsAccountSource(t *testing.T) {
	r, src, dst := testReplicator()
	seedProps(src.Blob("b"), testutil.BlobProps(md5Alpha, 10))
	seedProps(dst.Blob("b"), testutil.CopySuccess("10/10", testStart.Add(time.Second)))
	src.Blob("b").GetSASURLFunc = func(sas.BlobPermissions, time.Time, *blob.GetSASURLOptions) (string, error) {
		return "https://srcacct.blob.core.windows.net/data/b?sig=minted", nil
	}

	_, err := r.CopyBlob(context.Background(), "b", WithForce())

	require.NoError(t, err)
	assert.Equal(t, 1, src.Blob("b").GetSASURLCalls)
}

func TestCopyBlob_AsyncReturnsPendingWithoutPolling(t *testing.T) {
	r, _, dst := testReplicator()

	res, err := r.CopyBlob(context.Background(), "big.bin", WithForce(), WithAsync())

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusPending, res.Status)
	assert.Zero(t, res.Elapsed)
	assert.Equal(t, 1, dst.Blob("big.bin").StartCopyFromURLCalls)
	assert.Zero(t, dst.Blob("big.bin").GetPropertiesCalls, "async must not poll")
}

func TestCopyBlob_PendingConflictIsAResultNotAnError(t *testing.T) {
	r, src, dst := testReplicator()
	seedProps(src.Blob("b"), testutil.BlobProps(md5Alpha, 10))
	conflictOnCopy(dst.Blob("b"))

	res, err := r.CopyBlob(context.Background(), "b")

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusConflict, res.Status)
	assert.Zero(t, res.Elapsed)
	assert.NoError(t, res.Err)
}

func TestCopyBlob_InitiationFailureIsAResult(t *testing.T) {
	r, src, dst := testReplicator()
	seedProps(src.Blob("b"), testutil.BlobProps(md5Alpha, 10))
	dst.Blob("b").StartCopyFromURLFunc = func(context.Context, string, *blob.StartCopyFromURLOptions) (blob.StartCopyFromURLResponse, error) {
		return blob.StartCopyFromURLResponse{}, &azcore.ResponseError{
			ErrorCode: string(bloberror.AuthorizationFailure),
		}
	}

	res, err := r.CopyBlob(context.Background(), "b")

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestCopyBlob_BudgetExhaustionReportsPending(t *testing.T) {
	r, _, dst := testReplicator(
		WithPollInterval(time.Second),
		WithWaitBudget(3*time.Second),
	)
	seedProps(dst.Blob("slow.bin"), testutil.CopyPending("1/1000000"))

	res, err := r.CopyBlob(context.Background(), "slow.bin", WithForce())

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusPending, res.Status)
	assert.NoError(t, res.Err)
	assert.Equal(t, int64(1), res.BytesCopied)
	assert.Equal(t, int64(1000000), res.TotalBytes)
}

func TestCopyBlob_CompletedThenSkippedRoundTrip(t *testing.T) {
	r, src, dst := testReplicator()
	seedProps(src.Blob("b"), testutil.BlobProps(md5Alpha, 64))
	seedPropsSequence(dst.Blob("b"), testutil.NewPropsSequence(
		testutil.BlobProps(md5Beta, 64),
		testutil.CopySuccess("64/64", testStart.Add(time.Second)),
		testutil.BlobProps(md5Alpha, 64),
	))

	first, err := r.CopyBlob(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusCompleted, first.Status)

	second, err := r.CopyBlob(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusSkipped, second.Status)
	assert.Equal(t, 1, dst.Blob("b").StartCopyFromURLCalls)
}

func TestCopyBlob_ProgressTrackerReceivesUpdates(t *testing.T) {
	r, _, dst := testReplicator(WithPollInterval(time.Second))
	seedPropsSequence(dst.Blob("b"), testutil.NewPropsSequence(
		testutil.CopyPending("512/1024"),
		testutil.CopySuccess("1024/1024", testStart.Add(2*time.Second)),
	))
	tracker := &testutil.MockProgressTracker{}

	res, err := r.CopyBlob(context.Background(), "b", WithForce(), WithProgress(tracker))

	require.NoError(t, err)
	assert.Equal(t, blobtypes.StatusCompleted, res.Status)
	assert.Equal(t, []testutil.ProgressUpdate{{BytesCopied: 512, TotalBytes: 1024}}, tracker.Updates)
	assert.True(t, tracker.CompleteCalled)
}

func TestCopyBlob_NameResolution(t *testing.T) {
	tests := []struct {
		name    string
		source  blobtypes.Endpoint
		dest    blobtypes.Endpoint
		arg     string
		want    string
		wantErr bool
	}{
		{
			name:   "explicit argument wins",
			source: blobtypes.AccountEndpoint("s", "", "c", "from-source"),
			dest:   blobtypes.AccountEndpoint("d", "", "c", "from-dest"),
			arg:    "explicit",
			want:   "explicit",
		},
		{
			name:   "destination endpoint default",
			source: blobtypes.AccountEndpoint("s", "", "c", "from-source"),
			dest:   blobtypes.AccountEndpoint("d", "", "c", "from-dest"),
			want:   "from-dest",
		},
		{
			name:   "source endpoint fallback",
			source: blobtypes.AccountEndpoint("s", "", "c", "from-source"),
			dest:   blobtypes.AccountEndpoint("d", "", "c", ""),
			want:   "from-source",
		},
		{
			name:   "raw URL last path segment",
			source: blobtypes.URLEndpoint("https://acct.blob.core.windows.net/pub/2024/data.bin?sig=x"),
			dest:   blobtypes.AccountEndpoint("d", "", "c", ""),
			want:   "data.bin",
		},
		{
			name:    "nothing to resolve",
			source:  blobtypes.AccountEndpoint("s", "", "c", ""),
			dest:    blobtypes.AccountEndpoint("d", "", "c", ""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &testutil.MockContainer{}
			dst := &testutil.MockContainer{}
			r := NewWithBackend(tt.source, tt.dest, src, dst,
				WithClock(testutil.NewFakeClock(testStart)))

			res, err := r.CopyBlob(context.Background(), tt.arg, WithForce(), WithAsync())

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrMissingBlobName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Blob)
		})
	}
}

func TestCopyBlob_RejectsInvalidBlobName(t *testing.T) {
	r, _, _ := testReplicator()

	_, err := r.CopyBlob(context.Background(), "../../etc/passwd")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidBlobName)
}

func TestCopyAll_OneResultPerListedBlobInOrder(t *testing.T) {
	r, src, dst := testReplicator()
	src.NewListBlobsFlatPagerFunc = func(*container.ListBlobsFlatOptions) *runtime.Pager[container.ListBlobsFlatResponse] {
		return testutil.ListPager([]string{"a", "b"}, []string{"c"})
	}

	// a is already identical, b copies, c hits a pending-copy conflict.
	seedProps(src.Blob("a"), testutil.BlobProps(md5Alpha, 1))
	seedProps(dst.Blob("a"), testutil.BlobProps(md5Alpha, 1))

	seedProps(src.Blob("b"), testutil.BlobProps(md5Alpha, 2))
	seedPropsSequence(dst.Blob("b"), testutil.NewPropsSequence(
		testutil.BlobProps(md5Beta, 2),
		testutil.CopySuccess("2/2", testStart.Add(time.Second)),
	))

	seedProps(src.Blob("c"), testutil.BlobProps(md5Alpha, 3))
	conflictOnCopy(dst.Blob("c"))

	var results []blobtypes.CopyResult
	for res := range r.CopyAll(context.Background()) {
		results = append(results, res)
	}

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Blob)
	assert.Equal(t, blobtypes.StatusSkipped, results[0].Status)
	assert.Equal(t, "b", results[1].Blob)
	assert.Equal(t, blobtypes.StatusCompleted, results[1].Status)
	assert.Equal(t, "c", results[2].Blob)
	assert.Equal(t, blobtypes.StatusConflict, results[2].Status)
}

func TestCopyAll_FailureDoesNotHaltBatch(t *testing.T) {
	r, src, dst := testReplicator()
	src.NewListBlobsFlatPagerFunc = func(*container.ListBlobsFlatOptions) *runtime.Pager[container.ListBlobsFlatResponse] {
		return testutil.ListPager([]string{"bad", "good"})
	}

	seedProps(src.Blob("bad"), testutil.BlobProps(md5Alpha, 1))
	dst.Blob("bad").StartCopyFromURLFunc = func(context.Context, string, *blob.StartCopyFromURLOptions) (blob.StartCopyFromURLResponse, error) {
		return blob.StartCopyFromURLResponse{}, stderrors.New("boom")
	}

	seedProps(src.Blob("good"), testutil.BlobProps(md5Alpha, 2))
	seedProps(dst.Blob("good"), testutil.BlobProps(md5Alpha, 2))

	var results []blobtypes.CopyResult
	for res := range r.CopyAll(context.Background()) {
		results = append(results, res)
	}

	require.Len(t, results, 2)
	assert.Equal(t, blobtypes.StatusFailed, results[0].Status)
	assert.Error(t, results[0].Err)
	assert.Equal(t, blobtypes.StatusSkipped, results[1].Status)
}

func TestCopyAll_ListingFailure(t *testing.T) {
	r, src, _ := testReplicator()
	src.NewListBlobsFlatPagerFunc = func(*container.ListBlobsFlatOptions) *runtime.Pager[container.ListBlobsFlatResponse] {
		return testutil.FailingListPager(stderrors.New("403 AuthenticationFailed"))
	}

	var results []blobtypes.CopyResult
	for res := range r.CopyAll(context.Background()) {
		results = append(results, res)
	}

	require.Len(t, results, 1)
	assert.Equal(t, blobtypes.StatusFailed, results[0].Status)
	assert.ErrorContains(t, results[0].Err, "list source container")
}

func TestCopyAll_RawURLSourceDegradesToSingleCopy(t *testing.T) {
	src := &testutil.MockContainer{}
	dst := &testutil.MockContainer{}
	r := NewWithBackend(
		blobtypes.URLEndpoint("https://acct.blob.core.windows.net/pub/data.bin"),
		blobtypes.AccountEndpoint("dstacct", "dstkey", "data", ""),
		src, dst,
		WithClock(testutil.NewFakeClock(testStart)),
	)

	var results []blobtypes.CopyResult
	for res := range r.CopyAll(context.Background(), WithForce(), WithAsync()) {
		results = append(results, res)
	}

	require.Len(t, results, 1)
	assert.Equal(t, "data.bin", results[0].Blob)
	assert.Equal(t, blobtypes.StatusPending, results[0].Status)
	assert.Equal(t,
		"https://acct.blob.core.windows.net/pub/data.bin",
		dst.Blob("data.bin").LastCopySource,
	)
}

func TestCopyAll_CancelAndAbandonReleasesProducer(t *testing.T) {
	r, src, _ := testReplicator()
	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("blob-%02d", i)
	}
	src.NewListBlobsFlatPagerFunc = func(*container.ListBlobsFlatOptions) *runtime.Pager[container.ListBlobsFlatResponse] {
		return testutil.ListPager(names)
	}

	ctx, cancel := context.WithCancel(context.Background())
	before := goruntime.NumGoroutine()

	results := r.CopyAll(ctx, WithForce(), WithAsync())
	<-results
	cancel()
	// The channel is deliberately abandoned here; the producer must
	// still exit once its buffer fills.

	released := false
	for i := 0; i < 100; i++ {
		if goruntime.NumGoroutine() <= before {
			released = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.True(t, released, "producer goroutine should exit after cancellation")
}

func TestCopyAll_CreateContainerWhenRequested(t *testing.T) {
	r, src, dst := testReplicator(WithCreateContainer())
	src.NewListBlobsFlatPagerFunc = func(*container.ListBlobsFlatOptions) *runtime.Pager[container.ListBlobsFlatResponse] {
		return testutil.ListPager()
	}
	dst.CreateFunc = func(context.Context, *container.CreateOptions) (container.CreateResponse, error) {
		return container.CreateResponse{}, &azcore.ResponseError{
			ErrorCode: string(bloberror.ContainerAlreadyExists),
		}
	}

	for range r.CopyAll(context.Background()) {
	}

	assert.Equal(t, 1, dst.CreateCalls)
}

func TestCopyAll_CreateContainerFailureEndsBatch(t *testing.T) {
	r, _, dst := testReplicator(WithCreateContainer())
	dst.CreateFunc = func(context.Context, *container.CreateOptions) (container.CreateResponse, error) {
		return container.CreateResponse{}, &azcore.ResponseError{
			ErrorCode: string(bloberror.AuthorizationFailure),
		}
	}

	var results []blobtypes.CopyResult
	for res := range r.CopyAll(context.Background()) {
		results = append(results, res)
	}

	require.Len(t, results, 1)
	assert.Equal(t, blobtypes.StatusFailed, results[0].Status)
	assert.ErrorContains(t, results[0].Err, "create destination container")
}

func TestEnsureContainer(t *testing.T) {
	t.Run("creates missing container", func(t *testing.T) {
		r, _, dst := testReplicator()
		require.NoError(t, r.EnsureContainer(context.Background()))
		assert.Equal(t, 1, dst.CreateCalls)
	})

	t.Run("existing container is not an error", func(t *testing.T) {
		r, _, dst := testReplicator()
		dst.CreateFunc = func(context.Context, *container.CreateOptions) (container.CreateResponse, error) {
			return container.CreateResponse{}, &azcore.ResponseError{
				ErrorCode: string(bloberror.ContainerAlreadyExists),
			}
		}
		require.NoError(t, r.EnsureContainer(context.Background()))
	})

	t.Run("other failures propagate", func(t *testing.T) {
		r, _, dst := testReplicator()
		dst.CreateFunc = func(context.Context, *container.CreateOptions) (container.CreateResponse, error) {
			return container.CreateResponse{}, &azcore.ResponseError{
				ErrorCode: string(bloberror.AuthorizationFailure),
			}
		}
		require.Error(t, r.EnsureContainer(context.Background()))
	})
}
