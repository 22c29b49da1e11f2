//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/internal/domain/user"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure
		provideDiscoveryClient,
		providePool,
		provideGraph,
		provideAdminStore,

		// Repositories
		provideRepositories,

		// Services
		user.NewServiceWithDeps,
		provideJobService,
		provideExporter,

		newResources,
	)
	return nil, nil, nil
}
