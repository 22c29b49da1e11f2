package postgres

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var _ repository.PreferencesRepository = (*PreferencesRepository)(nil)

const preferencesColumns = `user_id, locations, remote_preference, job_types, salary_min, salary_max,
	industries, company_sizes, skills, excluded_companies, created_at, updated_at`

// PreferencesRepository stores rows of user_preferences
type PreferencesRepository struct {
	db DB
}

// NewPreferencesRepository creates a PreferencesRepository
func NewPreferencesRepository(db DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) GetPreferences(ctx context.Context, id domain.UserID) (*domain.UserPreferences, error) {
	row := r.db.QueryRow(ctx, `SELECT `+preferencesColumns+` FROM user_preferences WHERE user_id = $1`, id)
	p, err := scanPreferences(row)
	if err != nil {
		return nil, mapErr("get preferences", err)
	}
	return p, nil
}

func (r *PreferencesRepository) InsertPreferences(ctx context.Context, p domain.UserPreferences) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_preferences
			(user_id, locations, remote_preference, job_types, salary_min, salary_max,
			 industries, company_sizes, skills, excluded_companies)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.UserID, orEmpty(p.Locations), string(p.RemotePreference), orEmpty(p.JobTypes),
		p.SalaryMin, p.SalaryMax, orEmpty(p.Industries), orEmpty(p.CompanySizes),
		orEmpty(p.Skills), orEmpty(p.ExcludedCompanies))
	return mapErr("insert preferences", err)
}

func (r *PreferencesRepository) UpdatePreferences(ctx context.Context, id domain.UserID, upd domain.PreferencesUpdate) (*domain.UserPreferences, error) {
	var p patch
	if upd.Locations != nil {
		p.set("locations", orEmpty(*upd.Locations))
	}
	if upd.RemotePreference != nil {
		p.set("remote_preference", string(*upd.RemotePreference))
	}
	if upd.JobTypes != nil {
		p.set("job_types", orEmpty(*upd.JobTypes))
	}
	if upd.SalaryMin != nil {
		p.set("salary_min", *upd.SalaryMin)
	}
	if upd.SalaryMax != nil {
		p.set("salary_max", *upd.SalaryMax)
	}
	if upd.Industries != nil {
		p.set("industries", orEmpty(*upd.Industries))
	}
	if upd.CompanySizes != nil {
		p.set("company_sizes", orEmpty(*upd.CompanySizes))
	}
	if upd.Skills != nil {
		p.set("skills", orEmpty(*upd.Skills))
	}
	if upd.ExcludedCompanies != nil {
		p.set("excluded_companies", orEmpty(*upd.ExcludedCompanies))
	}
	if p.empty() {
		return r.GetPreferences(ctx, id)
	}

	sql, args := p.build("user_preferences", "user_id", id, preferencesColumns)
	prefs, err := scanPreferences(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapErr("update preferences", err)
	}
	return prefs, nil
}

func scanPreferences(row scanner) (*domain.UserPreferences, error) {
	var (
		p      domain.UserPreferences
		remote string
	)
	if err := row.Scan(&p.UserID, &p.Locations, &remote, &p.JobTypes, &p.SalaryMin, &p.SalaryMax,
		&p.Industries, &p.CompanySizes, &p.Skills, &p.ExcludedCompanies,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.RemotePreference = domain.RemotePreference(remote)
	p.Locations = orEmpty(p.Locations)
	p.JobTypes = orEmpty(p.JobTypes)
	p.Industries = orEmpty(p.Industries)
	p.CompanySizes = orEmpty(p.CompanySizes)
	p.Skills = orEmpty(p.Skills)
	p.ExcludedCompanies = orEmpty(p.ExcludedCompanies)
	return &p, nil
}
