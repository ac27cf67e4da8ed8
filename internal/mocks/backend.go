package mocks

import (
	"context"

	"github.com/jonmartinstorm/reposjekk/internal/extraction"
	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Extract(ctx context.Context, req extraction.Request) (extraction.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(extraction.Response), args.Error(1)
}
