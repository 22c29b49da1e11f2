// Package admin is the optional privileged persistence path. It connects with
// a service-role credential that bypasses row-level security and offers
// overwrite-style Save and Load of a user's rows in one table.
//
// A Store without a pool is disabled: every call logs and reports failure.
package admin

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// DefaultIDField is the owner column used when none is given
const DefaultIDField = "user_id"

// Record is one row keyed by column name
type Record = map[string]any

var (
	identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

	// users is readable but never rewritten; replacing it by id would
	// delete the account row itself
	readOnlyTables = map[string]struct{}{
		"users": {},
	}

	// tables the shim may touch
	allowedTables = map[string]struct{}{
		"users":                {},
		"user_preferences":     {},
		"cv_assets":            {},
		"pending_applications": {},
		"application_history":  {},
	}
)

type backend interface {
	userExists(ctx context.Context, userID uuid.UUID) (bool, error)
	replace(ctx context.Context, table, idField string, userID uuid.UUID, records []Record) error
	load(ctx context.Context, table, idField string, userID uuid.UUID) ([]Record, error)
}

// Store is the privileged database shim
type Store struct {
	db  backend
	log *logging.Logger
}

// NewStore wraps a privileged pool; a nil pool yields a disabled Store
func NewStore(pool *pgxpool.Pool, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{log: logger.Named("admin")}
	if pool != nil {
		s.db = &pgBackend{pool: pool}
	}
	return s
}

// Available reports whether a privileged credential is configured
func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

// Save replaces every row of table owned by userID with records.
// It reports false when the store is disabled, the user does not exist or
// any step fails; nothing is written in those cases. Writes bypass
// row-level security, so the store must never back a publicly reachable
// endpoint. The users table is read-only here.
func (s *Store) Save(ctx context.Context, table string, records []Record, userID uuid.UUID, idField string) bool {
	if idField == "" {
		idField = DefaultIDField
	}
	log := s.log.With("table", table, "user_id", userID.String())

	if !s.Available() {
		log.Warn("privileged store unavailable, save skipped")
		return false
	}
	if err := validate(table, idField); err != nil {
		log.Error("save rejected", "err", err)
		return false
	}
	if _, ok := readOnlyTables[table]; ok {
		log.Error("save rejected", "err", fmt.Errorf("admin: table %q is read-only", table))
		return false
	}

	exists, err := s.db.userExists(ctx, userID)
	if err != nil {
		log.Error("user lookup failed", "err", err)
		return false
	}
	if !exists {
		log.Warn("user does not exist, save skipped")
		return false
	}

	owned := make([]Record, 0, len(records))
	for _, r := range records {
		row := make(Record, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		row[idField] = userID
		owned = append(owned, row)
	}

	if err := s.db.replace(ctx, table, idField, userID, owned); err != nil {
		log.Error("save failed", "err", err)
		return false
	}

	log.Debug("records saved", "count", len(owned))
	return true
}

// Load returns the rows of table owned by userID, most recently updated first.
// ok is false when the store is disabled or the query fails.
func (s *Store) Load(ctx context.Context, table string, userID uuid.UUID, idField string) ([]Record, bool) {
	if idField == "" {
		idField = DefaultIDField
	}
	log := s.log.With("table", table, "user_id", userID.String())

	if !s.Available() {
		log.Warn("privileged store unavailable, load skipped")
		return nil, false
	}
	if err := validate(table, idField); err != nil {
		log.Error("load rejected", "err", err)
		return nil, false
	}

	rows, err := s.db.load(ctx, table, idField, userID)
	if err != nil {
		log.Error("load failed", "err", err)
		return nil, false
	}
	return rows, true
}

func validate(table, idField string) error {
	if _, ok := allowedTables[table]; !ok {
		return fmt.Errorf("admin: table %q is not allowed", table)
	}
	if !identRe.MatchString(idField) {
		return fmt.Errorf("admin: invalid id field %q", idField)
	}
	return nil
}

// columnsOf returns the sorted union of keys across records
func columnsOf(records []Record) ([]string, error) {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			if !identRe.MatchString(k) {
				return nil, fmt.Errorf("admin: invalid column %q", k)
			}
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, nil
}

type pgBackend struct {
	pool *pgxpool.Pool
}

func (b *pgBackend) userExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := b.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (b *pgBackend) replace(ctx context.Context, table, idField string, userID uuid.UUID, records []Record) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		sql, args, err := insertStatement(table, r)
		if err != nil {
			return err
		}
		batch.Queue(sql, args...)
	}

	return pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			pgx.Identifier{table}.Sanitize(), pgx.Identifier{idField}.Sanitize())
		if _, err := tx.Exec(ctx, del, userID); err != nil {
			return fmt.Errorf("delete existing rows: %w", err)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
}

// insertStatement renders one INSERT for the record's own columns so that
// omitted columns keep their defaults
func insertStatement(table string, r Record) (string, []any, error) {
	cols, err := columnsOf([]Record{r})
	if err != nil {
		return "", nil, err
	}
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = r[c]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "), strings.Join(params, ", "))
	return sql, args, nil
}

func (b *pgBackend) load(ctx context.Context, table, idField string, userID uuid.UUID) ([]Record, error) {
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 ORDER BY updated_at DESC",
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{idField}.Sanitize())
	rows, err := b.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}
