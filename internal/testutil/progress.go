package testutil

import "github.com/ConveyInsight/blobcopy/blobtypes"

// ProgressUpdate records a single progress callback.
type ProgressUpdate struct {
	BytesCopied int64
	TotalBytes  int64
}

// MockProgressTracker records progress callbacks for assertions.
type MockProgressTracker struct {
	UpdateCalled   bool
	CompleteCalled bool
	ErrorCalled    bool

	BytesCopied int64
	TotalBytes  int64
	LastError   error

	// Updates preserves every Update call in order.
	Updates []ProgressUpdate
}

// Update implements blobtypes.ProgressTracker.
func (m *MockProgressTracker) Update(bytesCopied, totalBytes int64) {
	m.UpdateCalled = true
	m.BytesCopied = bytesCopied
	m.TotalBytes = totalBytes
	m.Updates = append(m.Updates, ProgressUpdate{
		BytesCopied: bytesCopied,
		TotalBytes:  totalBytes,
	})
}

// Complete implements blobtypes.ProgressTracker.
func (m *MockProgressTracker) Complete() {
	m.CompleteCalled = true
}

// Error implements blobtypes.ProgressTracker.
func (m *MockProgressTracker) Error(err error) {
	m.ErrorCalled = true
	m.LastError = err
}

// Reset clears all recorded state for reuse within a test.
func (m *MockProgressTracker) Reset() {
	*m = MockProgressTracker{}
}

var _ blobtypes.ProgressTracker = (*MockProgressTracker)(nil)
