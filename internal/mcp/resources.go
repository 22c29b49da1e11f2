package mcp

import (
	"github.com/honeycarbs/jobmatch/internal/domain/job"
	"github.com/honeycarbs/jobmatch/internal/domain/user"
	"github.com/honeycarbs/jobmatch/internal/mcp/tools"
	"github.com/honeycarbs/jobmatch/internal/storage/admin"
	"github.com/honeycarbs/jobmatch/pkg/discovery"
)

// Resources holds everything the tool surface needs
type Resources struct {
	Discovery *discovery.Client
	Users     *user.Service
	Jobs      job.Service
	Admin     *admin.Store
	Exporter  tools.Exporter // nil when Sheets export is disabled
}

// toolOptions maps each resource to its tool group
func (r *Resources) toolOptions() []tools.Option {
	if r == nil {
		return nil
	}

	var (
		discoveryClient tools.DiscoveryClient
		batch           tools.BatchDiscoverer
		prefs           tools.PreferenceSource
		users           tools.UserService
		assets          tools.AssetService
		apps            tools.ApplicationService
		store           tools.AdminStore
	)
	if r.Discovery != nil {
		discoveryClient = r.Discovery
		batch = r.Discovery
	}
	if r.Jobs != nil {
		prefs = r.Jobs
	}
	if r.Users != nil {
		users = r.Users
		assets = r.Users
		apps = r.Users
	}
	if r.Admin != nil {
		store = r.Admin
	}

	return []tools.Option{
		tools.WithDiscoveryTools(discoveryClient, prefs),
		tools.WithJobTools(r.Jobs, batch),
		tools.WithUserTools(users),
		tools.WithAssetTools(assets),
		tools.WithApplicationTools(apps, r.Exporter),
		tools.WithAdminTools(store),
	}
}
