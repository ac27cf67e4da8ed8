package mocks

import (
	"context"
	"time"

	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockRowWriter struct {
	mock.Mock
}

func (m *MockRowWriter) ImportRows(ctx context.Context, rows []models.ReportRow, snapshot time.Time) error {
	args := m.Called(ctx, rows, snapshot)
	return args.Error(0)
}

func (m *MockRowWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}
