package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bread-finance/bread/internal/database"
)

// Manager applies the declarative catalog to a store: stratified
// idempotent creation, reference seeding, shape validation and teardown.
// Initialization runs once, synchronously, before the application serves
// anything; every statement is independently idempotent so an aborted run
// is completed by the next one.
type Manager struct {
	db     *database.DB
	tables []*Table
	log    zerolog.Logger
}

// NewManager creates a schema manager over the full ledger catalog.
func NewManager(db *database.DB, log zerolog.Logger) *Manager {
	return &Manager{
		db:     db,
		tables: Tables(),
		log:    log.With().Str("component", "schema").Logger(),
	}
}

// InitOptions controls initialization behavior.
type InitOptions struct {
	Seed bool // insert reference seed rows after creation
}

// Initialize creates every table in dependency order and seeds the
// reference tables. Idempotent: a fully initialized store is a no-op, a
// partially initialized one is completed.
func (m *Manager) Initialize(ctx context.Context) error {
	return m.InitializeWith(ctx, InitOptions{Seed: true})
}

// InitializeWith is Initialize with explicit options.
func (m *Manager) InitializeWith(ctx context.Context, opts InitOptions) error {
	if err := m.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	strata, err := Strata(m.tables)
	if err != nil {
		return fmt.Errorf("failed to order tables: %w", err)
	}

	for depth, stratum := range strata {
		for _, t := range stratum {
			if err := m.CreateTable(ctx, t); err != nil {
				return err
			}
			m.log.Debug().Str("table", t.Name()).Int("stratum", depth).Msg("Table ensured")
		}
	}

	if !opts.Seed {
		m.log.Info().Msg("Schema created, seeding skipped")
		return nil
	}

	var conflicts []error
	for _, stratum := range strata {
		for _, t := range stratum {
			if len(t.Seed()) == 0 {
				continue
			}
			tableConflicts, err := m.applySeed(ctx, t)
			if err != nil {
				return &TableError{Op: "seed", Table: t.Name(), Err: err}
			}
			conflicts = append(conflicts, tableConflicts...)
		}
	}
	if len(conflicts) > 0 {
		return errors.Join(conflicts...)
	}

	m.log.Info().Msg("Schema created and seeded")
	return nil
}

// CreateTable ensures a single table exists. Every table a declared
// foreign key references must already exist: SQLite resolves foreign-key
// targets lazily, so the definition-order contract is enforced here
// rather than left to the engine.
func (m *Manager) CreateTable(ctx context.Context, t *Table) error {
	for _, fk := range t.ForeignKeys() {
		exists, err := m.tableExists(ctx, fk.RefTable)
		if err != nil {
			return &TableError{Op: "create", Table: t.Name(), Err: err}
		}
		if !exists {
			return &TableError{
				Op:    "create",
				Table: t.Name(),
				Err:   fmt.Errorf("referenced table %q does not exist", fk.RefTable),
			}
		}
	}

	if _, err := m.db.ExecContext(ctx, t.CreateSQL()); err != nil {
		return &TableError{Op: "create", Table: t.Name(), Err: err}
	}
	return nil
}

// applySeed inserts missing seed rows keyed by id and reports rows whose
// stored contents differ from the expected seed. Existing rows are never
// mutated or deleted.
func (m *Manager) applySeed(ctx context.Context, t *Table) ([]error, error) {
	var conflicts []error

	err := database.WithTransaction(m.db.Conn(), func(tx *sql.Tx) error {
		for _, row := range t.Seed() {
			idValue, ok := row.Get("id")
			if !ok {
				return fmt.Errorf("seed row for %s has no id", t.Name())
			}
			id, err := bigIntType{}.Bind(idValue)
			if err != nil {
				return fmt.Errorf("seed row for %s: %w", t.Name(), err)
			}

			var count int
			query := fmt.Sprintf(`SELECT COUNT(*) FROM "%s" WHERE "id" = ?`, t.Name())
			if err := tx.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
				return err
			}

			if count == 0 {
				if err := t.Insert(ctx, tx, row); err != nil {
					return err
				}
				continue
			}

			// Row exists: verify it still matches the expected seed.
			for _, cell := range row {
				if cell.Column == "id" {
					continue
				}
				want, isText := cell.Value.(string)
				if !isText {
					continue
				}
				var got sql.NullString
				query := fmt.Sprintf(`SELECT "%s" FROM "%s" WHERE "id" = ?`, cell.Column, t.Name())
				if err := tx.QueryRowContext(ctx, query, id).Scan(&got); err != nil {
					return err
				}
				if !got.Valid || got.String != want {
					conflicts = append(conflicts, &SeedConflictError{
						Table:  t.Name(),
						ID:     id.(int64),
						Column: cell.Column,
						Want:   want,
						Got:    got.String,
					})
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

// IsInitialized reports whether the store contains at least one user table.
func (m *Manager) IsInitialized(ctx context.Context) (bool, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	return count > 0, nil
}

// Drop removes every catalog table, children before parents. Used by the
// force re-initialization path only; normal operation never deletes.
func (m *Manager) Drop(ctx context.Context) error {
	strata, err := Strata(m.tables)
	if err != nil {
		return fmt.Errorf("failed to order tables: %w", err)
	}

	for depth := len(strata) - 1; depth >= 0; depth-- {
		for _, t := range strata[depth] {
			if _, err := m.db.ExecContext(ctx, t.DropSQL()); err != nil {
				return &TableError{Op: "drop", Table: t.Name(), Err: err}
			}
		}
	}

	m.log.Info().Msg("Schema dropped")
	return nil
}

// tableExists checks the store for a user table with the given name.
func (m *Manager) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
