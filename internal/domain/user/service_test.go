package user

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

type memProfiles struct {
	mu        sync.Mutex
	rows      map[domain.UserID]domain.UserProfile
	getErr    error
	insertErr error
	delay     time.Duration
	inserts   int
}

func (m *memProfiles) GetProfile(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) InsertProfile(ctx context.Context, p domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.rows[p.ID]; ok {
		return repository.ErrDuplicate
	}
	m.rows[p.ID] = p
	return nil
}

func (m *memProfiles) UpdateProfile(ctx context.Context, id domain.UserID, upd domain.ProfileUpdate) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.GitHubUsername != nil {
		p.GitHubUsername = *upd.GitHubUsername
	}
	if upd.LinkedInUsername != nil {
		p.LinkedInUsername = *upd.LinkedInUsername
	}
	m.rows[id] = p
	return &p, nil
}

type memPreferences struct {
	mu        sync.Mutex
	rows      map[domain.UserID]domain.UserPreferences
	gets      int
	inserts   int
	updates   int
	getErr    error
	insertErr error
	// dropInserts accepts inserts without storing them
	dropInserts bool
}

func (m *memPreferences) GetPreferences(ctx context.Context, id domain.UserID) (*domain.UserPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.ExcludedCompanies = append([]string(nil), p.ExcludedCompanies...)
	return &p, nil
}

func (m *memPreferences) InsertPreferences(ctx context.Context, p domain.UserPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.rows[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	if !m.dropInserts {
		m.rows[p.UserID] = p
	}
	return nil
}

func (m *memPreferences) UpdatePreferences(ctx context.Context, id domain.UserID, upd domain.PreferencesUpdate) (*domain.UserPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.ExcludedCompanies != nil {
		p.ExcludedCompanies = *upd.ExcludedCompanies
	}
	if upd.Skills != nil {
		p.Skills = *upd.Skills
	}
	if upd.RemotePreference != nil {
		p.RemotePreference = *upd.RemotePreference
	}
	m.rows[id] = p
	return &p, nil
}

type memAssets struct {
	rows    []domain.CVAsset
	listErr error
}

func (m *memAssets) ListAssets(ctx context.Context, userID domain.UserID, t domain.CVAssetType) ([]domain.CVAsset, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.CVAsset
	for _, a := range m.rows {
		if a.UserID == userID && (t == "" || a.Type == t) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAssets) InsertAsset(ctx context.Context, a domain.CVAsset) (*domain.CVAsset, error) {
	m.rows = append(m.rows, a)
	return &a, nil
}

func (m *memAssets) UpdateAsset(ctx context.Context, id uuid.UUID, upd domain.CVAssetUpdate) (*domain.CVAsset, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			if upd.Title != nil {
				m.rows[i].Title = *upd.Title
			}
			a := m.rows[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAssets) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memApplications struct {
	pending []domain.PendingApplication
	history []domain.ApplicationRecord
	err     error
}

func (m *memApplications) ListPending(ctx context.Context, id domain.UserID) ([]domain.PendingApplication, error) {
	return m.pending, m.err
}

func (m *memApplications) ListHistory(ctx context.Context, id domain.UserID) ([]domain.ApplicationRecord, error) {
	return m.history, m.err
}

type memCompanies struct {
	rows []domain.Company
	err  error
}

func (m *memCompanies) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return m.rows, m.err
}

type fixture struct {
	svc       *Service
	profiles  *memProfiles
	prefs     *memPreferences
	assets    *memAssets
	apps      *memApplications
	companies *memCompanies
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		profiles:  &memProfiles{rows: map[domain.UserID]domain.UserProfile{}},
		prefs:     &memPreferences{rows: map[domain.UserID]domain.UserPreferences{}},
		assets:    &memAssets{},
		apps:      &memApplications{},
		companies: &memCompanies{},
	}
	base := []Option{
		WithProfiles(f.profiles),
		WithPreferences(f.prefs),
		WithCVAssets(f.assets),
		WithApplications(f.apps),
		WithCompanies(f.companies),
	}
	svc, err := NewService(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedPreferences(id domain.UserID, excluded ...string) {
	p := domain.DefaultPreferences(id)
	p.ExcludedCompanies = append([]string{}, excluded...)
	f.prefs.rows[id] = p
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	if _, err := NewService(WithProfiles(&memProfiles{})); err == nil {
		t.Fatal("expected error for missing repositories")
	}
}

func TestInitializeUserDataCreatesProfileAndPreferences(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.svc.InitializeUserData(context.Background(), domain.AuthUser{
		ID:    id,
		Email: "ada@example.com",
		Metadata: map[string]any{
			"name":      "Ada Lovelace",
			"user_name": "ada",
		},
	})

	p, ok := f.profiles.rows[id]
	if !ok {
		t.Fatal("profile not created")
	}
	if p.FullName != "Ada Lovelace" || p.GitHubUsername != "ada" || p.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	prefs, ok := f.prefs.rows[id]
	if !ok {
		t.Fatal("preferences not created")
	}
	if prefs.RemotePreference != domain.RemoteAny || !reflect.DeepEqual(prefs.JobTypes, []string{"full-time"}) {
		t.Fatalf("unexpected default preferences: %+v", prefs)
	}
}

func TestInitializeUserDataIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := domain.AuthUser{ID: uuid.New(), Email: "a@b.c"}

	f.svc.InitializeUserData(context.Background(), user)
	f.svc.InitializeUserData(context.Background(), user)

	if f.profiles.inserts != 1 {
		t.Fatalf("profile inserts = %d, want 1", f.profiles.inserts)
	}
	if f.prefs.inserts != 1 {
		t.Fatalf("preference inserts = %d, want 1", f.prefs.inserts)
	}
}

func TestInitializeUserDataToleratesConcurrentCreation(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.profiles.insertErr = repository.ErrDuplicate

	f.svc.InitializeUserData(context.Background(), domain.AuthUser{ID: id})

	if _, ok := f.prefs.rows[id]; !ok {
		t.Fatal("preferences should be created after duplicate profile insert")
	}
}

func TestInitializeUserDataSkipsOnCheckFailure(t *testing.T) {
	f := newFixture(t)
	f.profiles.getErr = errors.New("connection refused")

	f.svc.InitializeUserData(context.Background(), domain.AuthUser{ID: uuid.New()})

	if f.profiles.inserts != 0 || f.prefs.inserts != 0 {
		t.Fatalf("no writes expected, got profile=%d prefs=%d", f.profiles.inserts, f.prefs.inserts)
	}
}

func TestInitializeUserDataCheckTimeout(t *testing.T) {
	f := newFixture(t, WithTimeouts(20*time.Millisecond, 0))
	f.profiles.delay = 200 * time.Millisecond

	start := time.Now()
	f.svc.InitializeUserData(context.Background(), domain.AuthUser{ID: uuid.New()})

	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Fatalf("init waited %s, expected to give up early", elapsed)
	}
	if f.profiles.inserts != 0 {
		t.Fatal("timeout must not proceed to creation")
	}
}

func TestGetUserProfile(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.profiles.rows[id] = domain.UserProfile{ID: id, Email: "x@y.z"}

	if p := f.svc.GetUserProfile(context.Background(), id); p == nil || p.Email != "x@y.z" {
		t.Fatalf("GetUserProfile = %+v", p)
	}
	if p := f.svc.GetUserProfile(context.Background(), uuid.New()); p != nil {
		t.Fatalf("missing profile should be nil, got %+v", p)
	}
}

func TestGetUserProfileTimeout(t *testing.T) {
	f := newFixture(t, WithTimeouts(0, 20*time.Millisecond))
	id := uuid.New()
	f.profiles.rows[id] = domain.UserProfile{ID: id}
	f.profiles.delay = 200 * time.Millisecond

	if p := f.svc.GetUserProfile(context.Background(), id); p != nil {
		t.Fatal("slow read should yield nil")
	}
}

func TestUpdateUserProfile(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.profiles.rows[id] = domain.UserProfile{ID: id}

	if _, err := f.svc.UpdateUserProfile(context.Background(), id, domain.ProfileUpdate{}); err == nil {
		t.Fatal("empty update should fail")
	}

	name := "Grace"
	p, err := f.svc.UpdateUserProfile(context.Background(), id, domain.ProfileUpdate{FullName: &name})
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if p.FullName != "Grace" {
		t.Fatalf("FullName = %q", p.FullName)
	}

	if _, err := f.svc.UpdateUserProfile(context.Background(), uuid.New(), domain.ProfileUpdate{FullName: &name}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserPreferencesReadRepair(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	prefs := f.svc.GetUserPreferences(context.Background(), id)
	if prefs == nil {
		t.Fatal("expected repaired preferences")
	}
	if prefs.RemotePreference != domain.RemoteAny {
		t.Fatalf("RemotePreference = %q", prefs.RemotePreference)
	}
	if f.prefs.inserts != 1 || f.prefs.gets != 2 {
		t.Fatalf("inserts=%d gets=%d, want 1 and 2", f.prefs.inserts, f.prefs.gets)
	}
}

func TestGetUserPreferencesRetriesOnce(t *testing.T) {
	f := newFixture(t)
	f.prefs.dropInserts = true

	if prefs := f.svc.GetUserPreferences(context.Background(), uuid.New()); prefs != nil {
		t.Fatalf("expected nil, got %+v", prefs)
	}
	if f.prefs.inserts != 1 || f.prefs.gets != 2 {
		t.Fatalf("inserts=%d gets=%d, want 1 and 2", f.prefs.inserts, f.prefs.gets)
	}
}

func TestGetUserPreferencesStorageError(t *testing.T) {
	f := newFixture(t)
	f.prefs.getErr = errors.New("boom")

	if prefs := f.svc.GetUserPreferences(context.Background(), uuid.New()); prefs != nil {
		t.Fatal("expected nil on storage error")
	}
	if f.prefs.inserts != 0 {
		t.Fatal("non-missing errors must not trigger read-repair")
	}
}

func TestCreateDefaultUserPreferences(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.seedPreferences(id)

	if err := f.svc.CreateDefaultUserPreferences(context.Background(), id); err != nil {
		t.Fatalf("duplicate should be tolerated: %v", err)
	}

	f.prefs.insertErr = errors.New("permission denied")
	if err := f.svc.CreateDefaultUserPreferences(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}

func TestExcludeCompany(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.seedPreferences(id, "acme")

	prefs, err := f.svc.ExcludeCompany(context.Background(), id, "globex")
	if err != nil {
		t.Fatalf("ExcludeCompany: %v", err)
	}
	if !reflect.DeepEqual(prefs.ExcludedCompanies, []string{"acme", "globex"}) {
		t.Fatalf("excluded = %v", prefs.ExcludedCompanies)
	}

	prefs, err = f.svc.ExcludeCompany(context.Background(), id, "globex")
	if err != nil {
		t.Fatalf("ExcludeCompany again: %v", err)
	}
	if len(prefs.ExcludedCompanies) != 2 {
		t.Fatalf("exclusion must stay a set, got %v", prefs.ExcludedCompanies)
	}
	if f.prefs.updates != 1 {
		t.Fatalf("updates = %d, want 1", f.prefs.updates)
	}
}

func TestIncludeCompany(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.seedPreferences(id, "acme", "globex")

	prefs, err := f.svc.IncludeCompany(context.Background(), id, "acme")
	if err != nil {
		t.Fatalf("IncludeCompany: %v", err)
	}
	if !reflect.DeepEqual(prefs.ExcludedCompanies, []string{"globex"}) {
		t.Fatalf("excluded = %v", prefs.ExcludedCompanies)
	}

	if _, err := f.svc.IncludeCompany(context.Background(), id, "initech"); err != nil {
		t.Fatalf("IncludeCompany no-op: %v", err)
	}
	if f.prefs.updates != 1 {
		t.Fatalf("updates = %d, want 1", f.prefs.updates)
	}
}

func TestExcludeCompanyWithoutPreferences(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.ExcludeCompany(context.Background(), uuid.New(), "acme"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.IncludeCompany(context.Background(), uuid.New(), "acme"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetFilteredCompanies(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.seedPreferences(id, "b")
	f.companies.rows = []domain.Company{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	got, err := f.svc.GetFilteredCompanies(context.Background(), id)
	if err != nil {
		t.Fatalf("GetFilteredCompanies: %v", err)
	}
	want := []domain.Company{{ID: "a"}, {ID: "c"}, {ID: "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGetFilteredCompaniesErrors(t *testing.T) {
	// each case gets its own fixture: a failed company list cancels the
	// preference read, which may still be running when the call returns
	t.Run("company list failure", func(t *testing.T) {
		f := newFixture(t)
		f.companies.err = errors.New("db down")

		if _, err := f.svc.GetFilteredCompanies(context.Background(), uuid.New()); err == nil {
			t.Fatal("company list failure should be returned")
		}
	})

	t.Run("unreadable preferences", func(t *testing.T) {
		f := newFixture(t)
		f.companies.rows = []domain.Company{{ID: "a"}}
		f.prefs.getErr = errors.New("rls denied")

		got, err := f.svc.GetFilteredCompanies(context.Background(), uuid.New())
		if err != nil {
			t.Fatalf("unreadable preferences should not fail: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected unfiltered list, got %v", got)
		}
	})
}

func TestCVAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	if _, err := f.svc.CreateCVAsset(ctx, domain.CVAsset{UserID: id}); err == nil {
		t.Fatal("missing title should fail")
	}

	created, err := f.svc.CreateCVAsset(ctx, domain.CVAsset{UserID: id, Type: domain.AssetResume, Title: "CV"})
	if err != nil {
		t.Fatalf("CreateCVAsset: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if _, err := f.svc.CreateCVAsset(ctx, domain.CVAsset{UserID: id, Type: domain.AssetProject, Title: "Compiler"}); err != nil {
		t.Fatalf("CreateCVAsset: %v", err)
	}

	if got := f.svc.GetUserCVAssets(ctx, id, ""); len(got) != 2 {
		t.Fatalf("all assets = %d, want 2", len(got))
	}
	if got := f.svc.GetUserCVAssets(ctx, id, domain.AssetResume); len(got) != 1 {
		t.Fatalf("resume assets = %d, want 1", len(got))
	}

	title := "Resume 2026"
	updated, err := f.svc.UpdateCVAsset(ctx, created.ID, domain.CVAssetUpdate{Title: &title})
	if err != nil || updated.Title != title {
		t.Fatalf("UpdateCVAsset = %+v, %v", updated, err)
	}

	if err := f.svc.DeleteCVAsset(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCVAsset: %v", err)
	}
	if err := f.svc.DeleteCVAsset(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	f.assets.listErr = errors.New("boom")
	if got := f.svc.GetUserCVAssets(ctx, id, ""); got == nil || len(got) != 0 {
		t.Fatalf("failure should yield empty list, got %v", got)
	}
}

func TestApplicationsBestEffort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	if got := f.svc.GetPendingApplications(ctx, id); got == nil || len(got) != 0 {
		t.Fatalf("nil result should become empty list, got %v", got)
	}

	f.apps.history = []domain.ApplicationRecord{{ID: "h1"}}
	if got := f.svc.GetApplicationHistory(ctx, id); len(got) != 1 {
		t.Fatalf("history = %v", got)
	}

	f.apps.err = errors.New("boom")
	if got := f.svc.GetApplicationHistory(ctx, id); got == nil || len(got) != 0 {
		t.Fatalf("failure should yield empty list, got %v", got)
	}
}

func TestBoundedReturnsTimeout(t *testing.T) {
	_, err := bounded(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		time.Sleep(5 * time.Millisecond)
		return 1, nil
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
