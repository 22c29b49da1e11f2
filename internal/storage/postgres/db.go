// Package postgres implements the repository interfaces on top of pgx.
// Every query runs under the caller's row-level security role; nothing here
// bypasses it.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/honeycarbs/jobmatch/internal/repository"
	pkgpg "github.com/honeycarbs/jobmatch/pkg/postgres"
)

// DB is the subset of *pgxpool.Pool the repositories use
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapErr turns driver errors into repository sentinels
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case pkgpg.IsNoRows(err):
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	case pkgpg.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// patch accumulates "col = $n" assignments for partial updates
type patch struct {
	sets []string
	args []any
}

func (p *patch) set(col string, v any) {
	p.args = append(p.args, v)
	p.sets = append(p.sets, fmt.Sprintf("%s = $%d", col, len(p.args)))
}

func (p *patch) empty() bool { return len(p.sets) == 0 }

// build renders "UPDATE table SET ... WHERE key = $n RETURNING cols"
func (p *patch) build(table, key string, id any, returning string) (string, []any) {
	args := append(append([]any{}, p.args...), id)
	sql := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE %s = $%d RETURNING %s",
		table, strings.Join(p.sets, ", "), key, len(args), returning)
	return sql, args
}

// orEmpty keeps NOT NULL array columns from receiving NULL
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
