package testutil

import (
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// BlobProps builds a properties response carrying the content checksum
// and length the comparator inspects.
func BlobProps(md5 []byte, length int64) blob.GetPropertiesResponse {
	return blob.GetPropertiesResponse{
		ContentMD5:    md5,
		ContentLength: to.Ptr(length),
	}
}

// CopyPending builds a properties response for an in-flight copy with
// the given "copied/total" progress string.
func CopyPending(progress string) blob.GetPropertiesResponse {
	return blob.GetPropertiesResponse{
		CopyStatus:   to.Ptr(blob.CopyStatusTypePending),
		CopyProgress: to.Ptr(progress),
	}
}

// CopySuccess builds a properties response for a finished copy.
func CopySuccess(progress string, completion time.Time) blob.GetPropertiesResponse {
	return blob.GetPropertiesResponse{
		CopyStatus:         to.Ptr(blob.CopyStatusTypeSuccess),
		CopyProgress:       to.Ptr(progress),
		CopyCompletionTime: to.Ptr(completion),
	}
}

// CopyFailed builds a properties response for a failed copy with the
// service's status description.
func CopyFailed(description string) blob.GetPropertiesResponse {
	return blob.GetPropertiesResponse{
		CopyStatus:            to.Ptr(blob.CopyStatusTypeFailed),
		CopyStatusDescription: to.Ptr(description),
	}
}

// PropsSequence serves an ordered sequence of properties responses or
// errors, then repeats the final step. It drives multi-poll monitor
// tests.
type PropsSequence struct {
	steps []propsStep
	next  int
}

type propsStep struct {
	resp blob.GetPropertiesResponse
	err  error
}

// NewPropsSequence creates a sequence over the given responses.
func NewPropsSequence(responses ...blob.GetPropertiesResponse) *PropsSequence {
	s := &PropsSequence{}
	for _, resp := range responses {
		s.steps = append(s.steps, propsStep{resp: resp})
	}
	return s
}

// Then appends a response step.
func (s *PropsSequence) Then(resp blob.GetPropertiesResponse) *PropsSequence {
	s.steps = append(s.steps, propsStep{resp: resp})
	return s
}

// ThenError appends an error step.
func (s *PropsSequence) ThenError(err error) *PropsSequence {
	s.steps = append(s.steps, propsStep{err: err})
	return s
}

// Next returns the sequence's next step.
func (s *PropsSequence) Next() (blob.GetPropertiesResponse, error) {
	if len(s.steps) == 0 {
		return blob.GetPropertiesResponse{}, nil
	}
	i := s.next
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	} else {
		s.next++
	}
	return s.steps[i].resp, s.steps[i].err
}
