package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/fs"
)

// MockBundleSource implements stshell.BundleSource for testing across packages
type MockBundleSource struct {
	mock.Mock
}

func (m *MockBundleSource) FetchTree(ctx context.Context, owner string) ([]stshell.ResourceNode, error) {
	args := m.Called(ctx, owner)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stshell.ResourceNode), args.Error(1)
}

func (m *MockBundleSource) FetchItem(ctx context.Context, owner, itemID, resourceType string) ([]byte, error) {
	args := m.Called(ctx, owner, itemID, resourceType)

	// Handle function return types (for content derived from the id)
	if fn, ok := args.Get(0).(func(string) []byte); ok {
		return fn(itemID), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ stshell.BundleSource = (*MockBundleSource)(nil)

// MockFS implements fs.FS for testing across packages
type MockFS struct {
	mock.Mock
}

func (m *MockFS) MkdirAll(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockFS) WriteFile(path string, data []byte) error {
	args := m.Called(path, data)
	return args.Error(0)
}

var _ fs.FS = (*MockFS)(nil)
