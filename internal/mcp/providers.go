package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/internal/domain/job"
	"github.com/honeycarbs/jobmatch/internal/domain/user"
	"github.com/honeycarbs/jobmatch/internal/export"
	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/internal/storage/admin"
	graphstore "github.com/honeycarbs/jobmatch/internal/storage/neo4j"
	pgstore "github.com/honeycarbs/jobmatch/internal/storage/postgres"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
	"github.com/honeycarbs/jobmatch/pkg/logging"
	n4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
	"github.com/honeycarbs/jobmatch/pkg/postgres"
	sheetsclient "github.com/honeycarbs/jobmatch/pkg/sheets"
)

const neo4jVerifyTimeout = 10 * time.Second

// provideDiscoveryClient builds the job discovery REST client
func provideDiscoveryClient(cfg config.Config) (*discovery.Client, error) {
	return discovery.NewClient(discovery.Config{
		BaseURL:  cfg.Discovery.URL,
		BasePath: cfg.Discovery.BasePath,
		Timeout:  cfg.Discovery.Timeout,
	})
}

// providePool opens the row-level-security scoped pool
func providePool(ctx context.Context, cfg config.Config, logger *logging.Logger) (*pgxpool.Pool, func(), error) {
	pcfg := postgres.DefaultPoolConfig()
	if cfg.Database.MaxConns > 0 {
		pcfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := postgres.NewPool(ctx, cfg.Database.URL, pcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	logger.Info("database pool ready", "max_conns", pcfg.MaxConns)
	return pool, pool.Close, nil
}

// provideRepositories binds the Postgres repositories to the user service
func provideRepositories(pool *pgxpool.Pool) user.Repositories {
	return user.Repositories{
		Profiles:     pgstore.NewProfileRepository(pool),
		Preferences:  pgstore.NewPreferencesRepository(pool),
		Assets:       pgstore.NewCVAssetRepository(pool),
		Applications: pgstore.NewApplicationRepository(pool),
		Companies:    pgstore.NewCompanyRepository(pool),
	}
}

// provideAdminStore opens the service-role pool when configured. A missing or
// unreachable credential leaves the store disabled instead of failing startup.
func provideAdminStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*admin.Store, func()) {
	if cfg.Database.ServiceRoleURL == "" {
		logger.Info("SERVICE_ROLE_DATABASE_URL not set, privileged store disabled")
		return admin.NewStore(nil, logger), func() {}
	}

	pcfg := postgres.DefaultPoolConfig()
	pcfg.MaxConns = 2
	pool, err := postgres.NewPool(ctx, cfg.Database.ServiceRoleURL, pcfg)
	if err != nil {
		logger.Warn("privileged pool unavailable, store disabled", "err", err)
		return admin.NewStore(nil, logger), func() {}
	}
	return admin.NewStore(pool, logger), pool.Close
}

// provideGraph connects to Neo4j when NEO4J_URI is set. The returned
// repository is a nil interface when the graph is disabled.
func provideGraph(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.JobGraphRepository, func(), error) {
	if !cfg.GraphEnabled() {
		logger.Info("NEO4J_URI not set, job graph disabled")
		return nil, func() {}, nil
	}

	client, err := n4j.NewClient(ctx, n4j.Config{
		URI:           cfg.Neo4j.URI,
		Username:      cfg.Neo4j.Username,
		Password:      cfg.Neo4j.Password,
		VerifyTimeout: neo4jVerifyTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("neo4j client initialized", "uri", cfg.Neo4j.URI)

	cleanup := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("neo4j close failed", "err", err)
		}
	}
	return graphstore.NewJobGraphRepository(client), cleanup, nil
}

// provideExporter builds the Sheets exporter; nil when export is disabled
func provideExporter(ctx context.Context, cfg config.Config, users *user.Service, logger *logging.Logger) (tools.Exporter, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("GOOGLE_SHEETS_CREDENTIALS_PATH not set, sheets export disabled")
		return nil, nil
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	return export.NewApplicationExporter(client, users, cfg.Sheets.SpreadsheetID, logger), nil
}

// provideJobService adapts the concrete dependencies to job.NewServiceWithDeps
func provideJobService(client *discovery.Client, users *user.Service, graph repository.JobGraphRepository, logger *logging.Logger) (job.Service, error) {
	return job.NewServiceWithDeps(client, users, graph, logger)
}

// newResources creates the Resources struct
func newResources(
	client *discovery.Client,
	users *user.Service,
	jobs job.Service,
	store *admin.Store,
	exporter tools.Exporter,
) *Resources {
	return &Resources{
		Discovery: client,
		Users:     users,
		Jobs:      jobs,
		Admin:     store,
		Exporter:  exporter,
	}
}
