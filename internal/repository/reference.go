package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// ReferenceEntry is one row of a reference table. Ids are stable and part
// of the public contract; consumers may hard-code them.
type ReferenceEntry struct {
	ID   int64
	Name string
}

// ReferenceRepository reads the enumerated reference tables. Reference
// tables are immutable post-seed, so there is no write surface.
type ReferenceRepository struct {
	*BaseRepository
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *sql.DB, log zerolog.Logger) *ReferenceRepository {
	return &ReferenceRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "reference").Logger()),
	}
}

// AccountTypes returns all account types ordered by id.
func (r *ReferenceRepository) AccountTypes(ctx context.Context) ([]ReferenceEntry, error) {
	return r.list(ctx, "account_type")
}

// TransactionTypes returns all transaction types ordered by id.
func (r *ReferenceRepository) TransactionTypes(ctx context.Context) ([]ReferenceEntry, error) {
	return r.list(ctx, "transaction_type")
}

// FinancialProductTypes returns all financial product types ordered by id.
func (r *ReferenceRepository) FinancialProductTypes(ctx context.Context) ([]ReferenceEntry, error) {
	return r.list(ctx, "financial_product_type")
}

// AccountTypeID resolves an account type by name.
func (r *ReferenceRepository) AccountTypeID(ctx context.Context, name string) (int64, error) {
	return r.idByName(ctx, "account_type", name)
}

// TransactionTypeID resolves a transaction type by name.
func (r *ReferenceRepository) TransactionTypeID(ctx context.Context, name string) (int64, error) {
	return r.idByName(ctx, "transaction_type", name)
}

// FinancialProductTypeID resolves a financial product type by name.
func (r *ReferenceRepository) FinancialProductTypeID(ctx context.Context, name string) (int64, error) {
	return r.idByName(ctx, "financial_product_type", name)
}

func (r *ReferenceRepository) list(ctx context.Context, table string) ([]ReferenceEntry, error) {
	query := fmt.Sprintf(`SELECT id, name FROM "%s" ORDER BY id`, table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var entries []ReferenceEntry
	for rows.Next() {
		var e ReferenceEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return entries, nil
}

func (r *ReferenceRepository) idByName(ctx context.Context, table, name string) (int64, error) {
	query := fmt.Sprintf(`SELECT id FROM "%s" WHERE name = ?`, table)
	var id int64
	err := r.db.QueryRowContext(ctx, query, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no %s named %q", table, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s %q: %w", table, name, err)
	}
	return id, nil
}
