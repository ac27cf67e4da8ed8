package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockGit struct {
	mock.Mock
}

func (m *MockGit) Clone(ctx context.Context, url, dir string) error {
	args := m.Called(ctx, url, dir)
	return args.Error(0)
}

func (m *MockGit) Pull(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}

func (m *MockGit) HeadCommit(ctx context.Context, dir string) (string, error) {
	args := m.Called(ctx, dir)
	return args.String(0), args.Error(1)
}

func (m *MockGit) HeadCommitTime(ctx context.Context, dir string) (time.Time, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockGit) LastCommit(ctx context.Context, dir, path string) (string, error) {
	args := m.Called(ctx, dir, path)
	return args.String(0), args.Error(1)
}
