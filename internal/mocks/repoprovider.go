package mocks

import (
	"context"

	"github.com/jonmartinstorm/reposjekk/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockRepoProvider struct {
	mock.Mock
}

func (m *MockRepoProvider) ListOrgRepos(ctx context.Context, org string) ([]models.RepoMeta, error) {
	args := m.Called(ctx, org)
	repos, _ := args.Get(0).([]models.RepoMeta)
	return repos, args.Error(1)
}

func (m *MockRepoProvider) GetRepo(ctx context.Context, owner, name string) (models.RepoMeta, error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).(models.RepoMeta), args.Error(1)
}

func (m *MockRepoProvider) Contributors(ctx context.Context, owner, name string) ([]string, error) {
	args := m.Called(ctx, owner, name)
	logins, _ := args.Get(0).([]string)
	return logins, args.Error(1)
}
