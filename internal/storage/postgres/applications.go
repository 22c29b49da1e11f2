package postgres

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var (
	_ repository.ApplicationRepository = (*ApplicationRepository)(nil)
	_ repository.CompanyRepository     = (*CompanyRepository)(nil)
)

const listingJoin = `
	JOIN job_listings j ON j.id = a.job_listing_id
	LEFT JOIN companies c ON c.id = j.company_id`

const listingColumns = `j.id, j.title, COALESCE(j.location, ''), COALESCE(j.url, ''),
	COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.website, ''),
	COALESCE(c.industry, ''), COALESCE(c.size, '')`

// ApplicationRepository reads pending_applications and application_history
// joined with their listing and company
type ApplicationRepository struct {
	db DB
}

// NewApplicationRepository creates an ApplicationRepository
func NewApplicationRepository(db DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) ListPending(ctx context.Context, userID domain.UserID) ([]domain.PendingApplication, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id::text, a.user_id, a.job_listing_id::text, a.status, a.created_at, `+listingColumns+`
		 FROM pending_applications a`+listingJoin+`
		 WHERE a.user_id = $1
		 ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, mapErr("list pending applications", err)
	}
	defer rows.Close()

	out := make([]domain.PendingApplication, 0)
	for rows.Next() {
		var a domain.PendingApplication
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobListingID, &a.Status, &a.CreatedAt,
			&a.Job.ID, &a.Job.Title, &a.Job.Location, &a.Job.URL,
			&a.Company.ID, &a.Company.Name, &a.Company.Website, &a.Company.Industry, &a.Company.Size); err != nil {
			return nil, mapErr("scan pending application", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list pending applications", err)
	}
	return out, nil
}

func (r *ApplicationRepository) ListHistory(ctx context.Context, userID domain.UserID) ([]domain.ApplicationRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id::text, a.user_id, a.job_listing_id::text, a.status, COALESCE(a.notes, ''), a.submitted_at, `+listingColumns+`
		 FROM application_history a`+listingJoin+`
		 WHERE a.user_id = $1
		 ORDER BY a.submitted_at DESC`, userID)
	if err != nil {
		return nil, mapErr("list application history", err)
	}
	defer rows.Close()

	out := make([]domain.ApplicationRecord, 0)
	for rows.Next() {
		var a domain.ApplicationRecord
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobListingID, &a.Status, &a.Notes, &a.SubmittedAt,
			&a.Job.ID, &a.Job.Title, &a.Job.Location, &a.Job.URL,
			&a.Company.ID, &a.Company.Name, &a.Company.Website, &a.Company.Industry, &a.Company.Size); err != nil {
			return nil, mapErr("scan application record", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list application history", err)
	}
	return out, nil
}

// CompanyRepository reads the companies table
type CompanyRepository struct {
	db DB
}

// NewCompanyRepository creates a CompanyRepository
func NewCompanyRepository(db DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// ListCompanies returns every company ordered by name
func (r *CompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, name, COALESCE(website, ''), COALESCE(industry, ''), COALESCE(size, '')
		 FROM companies ORDER BY name`)
	if err != nil {
		return nil, mapErr("list companies", err)
	}
	defer rows.Close()

	out := make([]domain.Company, 0)
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Size); err != nil {
			return nil, mapErr("scan company", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list companies", err)
	}
	return out, nil
}
