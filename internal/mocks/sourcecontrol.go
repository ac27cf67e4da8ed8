package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockSourceControl struct {
	mock.Mock
}

func (m *MockSourceControl) CommitHash(ctx context.Context, relPath string) (string, error) {
	args := m.Called(ctx, relPath)
	return args.String(0), args.Error(1)
}
