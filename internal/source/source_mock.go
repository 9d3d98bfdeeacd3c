package source

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// MockSourceReader is a mock implementation of SourceReader for testing.
type MockSourceReader struct {
	mock.Mock
}

var _ contract.SourceReader = &MockSourceReader{} // Compile-time check

// Open implements the SourceReader interface.
func (m *MockSourceReader) Open(ctx context.Context, path string) (*schema.SourceHandle, error) {
	args := m.Called(ctx, path)
	handle, _ := args.Get(0).(*schema.SourceHandle)
	return handle, args.Error(1)
}

// ReadHistogramSet implements the SourceReader interface.
func (m *MockSourceReader) ReadHistogramSet(handle *schema.SourceHandle, dir string) (*schema.HistogramSet, error) {
	args := m.Called(handle, dir)
	set, _ := args.Get(0).(*schema.HistogramSet)
	return set, args.Error(1)
}

// ReadNormalizationValue implements the SourceReader interface.
func (m *MockSourceReader) ReadNormalizationValue(handle *schema.SourceHandle) float64 {
	args := m.Called(handle)
	return args.Get(0).(float64)
}
