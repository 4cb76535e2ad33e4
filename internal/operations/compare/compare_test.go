package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/stretchr/testify/assert"

	"github.com/ConveyInsight/blobcopy/internal/testutil"
)

func propsBlob(resp blob.GetPropertiesResponse, err error) *testutil.MockBlob {
	return &testutil.MockBlob{
		GetPropertiesFunc: func(context.Context, *blob.GetPropertiesOptions) (blob.GetPropertiesResponse, error) {
			return resp, err
		},
	}
}

func TestChecksumComparator_Identical(t *testing.T) {
	md5A := []byte{0x01, 0x02, 0x03, 0x04}
	md5B := []byte{0x0a, 0x0b, 0x0c, 0x0d}

	tests := []struct {
		name string
		src  *testutil.MockBlob
		dst  *testutil.MockBlob
		want bool
	}{
		{
			name: "same checksum and length",
			src:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			dst:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			want: true,
		},
		{
			name: "different checksum",
			src:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			dst:  propsBlob(testutil.BlobProps(md5B, 1024), nil),
			want: false,
		},
		{
			name: "same checksum different length",
			src:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			dst:  propsBlob(testutil.BlobProps(md5A, 2048), nil),
			want: false,
		},
		{
			name: "source has no stored checksum",
			src:  propsBlob(testutil.BlobProps(nil, 1024), nil),
			dst:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			want: false,
		},
		{
			name: "destination has no stored checksum",
			src:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			dst:  propsBlob(testutil.BlobProps(nil, 1024), nil),
			want: false,
		},
		{
			name: "source properties fetch fails",
			src:  propsBlob(blob.GetPropertiesResponse{}, errors.New("connection reset")),
			dst:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			want: false,
		},
		{
			name: "destination missing",
			src:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			dst:  propsBlob(blob.GetPropertiesResponse{}, errors.New("BlobNotFound")),
			want: false,
		},
		{
			name: "length missing on destination",
			src:  propsBlob(testutil.BlobProps(md5A, 1024), nil),
			dst: propsBlob(blob.GetPropertiesResponse{
				ContentMD5: md5A,
			}, nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecksumComparator()
			got := c.Identical(context.Background(), tt.src, tt.dst)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksumComparator_FetchesEachSideOnce(t *testing.T) {
	md5 := []byte{0x01, 0x02}
	src := propsBlob(testutil.BlobProps(md5, 10), nil)
	dst := propsBlob(testutil.BlobProps(md5, 10), nil)

	c := NewChecksumComparator()
	c.Identical(context.Background(), src, dst)

	assert.Equal(t, 1, src.GetPropertiesCalls)
	assert.Equal(t, 1, dst.GetPropertiesCalls)
}
