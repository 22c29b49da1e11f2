// Package user implements profile, preference, CV asset and application
// tracking operations over row-level-secured storage.
//
// Operations come in two families. Best-effort reads (InitializeUserData,
// GetUserProfile, GetUserPreferences, GetUserCVAssets, GetPendingApplications,
// GetApplicationHistory) never return an error: failures are logged and turned
// into nil or empty results.
// Every other operation is strict and returns its error.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/honeycarbs/jobmatch/internal/repository"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

const (
	defaultInitCheckTimeout = 5 * time.Second
	defaultReadTimeout      = 3 * time.Second
)

// ErrTimeout is returned internally when a bounded read does not finish in time
var ErrTimeout = errors.New("operation timed out")

// Option configures Service
type Option func(*config)

type config struct {
	profiles     repository.ProfileRepository
	preferences  repository.PreferencesRepository
	assets       repository.CVAssetRepository
	applications repository.ApplicationRepository
	companies    repository.CompanyRepository
	logger       *logging.Logger
	initTimeout  time.Duration
	readTimeout  time.Duration
}

// WithProfiles sets the users table repository
func WithProfiles(r repository.ProfileRepository) Option {
	return func(c *config) { c.profiles = r }
}

// WithPreferences sets the user_preferences repository
func WithPreferences(r repository.PreferencesRepository) Option {
	return func(c *config) { c.preferences = r }
}

// WithCVAssets sets the cv_assets repository
func WithCVAssets(r repository.CVAssetRepository) Option {
	return func(c *config) { c.assets = r }
}

// WithApplications sets the application views repository
func WithApplications(r repository.ApplicationRepository) Option {
	return func(c *config) { c.applications = r }
}

// WithCompanies sets the companies repository
func WithCompanies(r repository.CompanyRepository) Option {
	return func(c *config) { c.companies = r }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithTimeouts overrides the bootstrap check and read bounds
func WithTimeouts(initCheck, read time.Duration) Option {
	return func(c *config) {
		if initCheck > 0 {
			c.initTimeout = initCheck
		}
		if read > 0 {
			c.readTimeout = read
		}
	}
}

// Service is the user/profile data service
type Service struct {
	profiles     repository.ProfileRepository
	preferences  repository.PreferencesRepository
	assets       repository.CVAssetRepository
	applications repository.ApplicationRepository
	companies    repository.CompanyRepository
	log          *logging.Logger
	initTimeout  time.Duration
	readTimeout  time.Duration
}

// NewService builds Service from options
func NewService(opts ...Option) (*Service, error) {
	cfg := &config{
		initTimeout: defaultInitCheckTimeout,
		readTimeout: defaultReadTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch {
	case cfg.profiles == nil:
		return nil, fmt.Errorf("user.Service: profile repository is required")
	case cfg.preferences == nil:
		return nil, fmt.Errorf("user.Service: preferences repository is required")
	case cfg.assets == nil:
		return nil, fmt.Errorf("user.Service: cv asset repository is required")
	case cfg.applications == nil:
		return nil, fmt.Errorf("user.Service: application repository is required")
	case cfg.companies == nil:
		return nil, fmt.Errorf("user.Service: company repository is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	return &Service{
		profiles:     cfg.profiles,
		preferences:  cfg.preferences,
		assets:       cfg.assets,
		applications: cfg.applications,
		companies:    cfg.companies,
		log:          cfg.logger.Named("user"),
		initTimeout:  cfg.initTimeout,
		readTimeout:  cfg.readTimeout,
	}, nil
}

// Repositories groups the storage dependencies for NewServiceWithDeps
type Repositories struct {
	Profiles     repository.ProfileRepository
	Preferences  repository.PreferencesRepository
	Assets       repository.CVAssetRepository
	Applications repository.ApplicationRepository
	Companies    repository.CompanyRepository
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(repos Repositories, logger *logging.Logger) (*Service, error) {
	return NewService(
		WithProfiles(repos.Profiles),
		WithPreferences(repos.Preferences),
		WithCVAssets(repos.Assets),
		WithApplications(repos.Applications),
		WithCompanies(repos.Companies),
		WithLogger(logger),
	)
}

// bounded runs fn and gives up after d. fn receives a context cancelled on
// timeout, but a result arriving late is discarded rather than awaited.
func bounded[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, d)
		}
		return zero, ctx.Err()
	}
}
