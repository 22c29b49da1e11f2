package postgres

import (
	"context"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

const profileColumns = `id, email, COALESCE(full_name, ''), COALESCE(github_username, ''),
	COALESCE(linkedin_username, ''), created_at, updated_at`

// ProfileRepository stores rows of the users table
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a ProfileRepository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr("get profile", err)
	}
	return p, nil
}

func (r *ProfileRepository) InsertProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, full_name, github_username, linkedin_username)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))`,
		p.ID, p.Email, p.FullName, p.GitHubUsername, p.LinkedInUsername)
	return mapErr("insert profile", err)
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, id domain.UserID, upd domain.ProfileUpdate) (*domain.UserProfile, error) {
	var p patch
	if upd.FullName != nil {
		p.set("full_name", *upd.FullName)
	}
	if upd.GitHubUsername != nil {
		p.set("github_username", *upd.GitHubUsername)
	}
	if upd.LinkedInUsername != nil {
		p.set("linkedin_username", *upd.LinkedInUsername)
	}
	if p.empty() {
		return r.GetProfile(ctx, id)
	}

	sql, args := p.build("users", "id", id, profileColumns)
	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapErr("update profile", err)
	}
	return profile, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.GitHubUsername,
		&p.LinkedInUsername, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
