package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// EntityRepository creates the dimension entities the ledger hangs off:
// holders, providers, accounts and financial products.
type EntityRepository struct {
	*BaseRepository
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *sql.DB, log zerolog.Logger) *EntityRepository {
	return &EntityRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "entity").Logger()),
	}
}

// NewHolder describes a holder to create.
type NewHolder struct {
	Name       string
	TaxBracket *string
}

// NewProvider describes a provider to create.
type NewProvider struct {
	Name             string
	CountryISOAlpha2 string
}

// NewAccount describes an account to create. Up to three holders; the
// first is required.
type NewAccount struct {
	Name          string
	AccountTypeID int64
	ProviderID    int64
	Holder1ID     int64
	Holder2ID     *int64
	Holder3ID     *int64
}

// NewFinancialProduct describes a financial product to create.
type NewFinancialProduct struct {
	Name                   string
	FinancialProductTypeID int64
	Currency               string
	ProviderID             int64
	HolderID               int64
	Ticker                 *string
	ISIN                   *string
}

// CreateHolder inserts a holder and returns its generated id.
func (r *EntityRepository) CreateHolder(ctx context.Context, h NewHolder) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO holder (name, tax_bracket) VALUES (?, ?)`,
		h.Name, nullString(h.TaxBracket))
	if err != nil {
		return 0, fmt.Errorf("failed to create holder %q: %w", h.Name, err)
	}
	return lastID(result)
}

// CreateProvider inserts a provider and returns its generated id.
func (r *EntityRepository) CreateProvider(ctx context.Context, p NewProvider) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO provider (name, country_iso_alpha2) VALUES (?, ?)`,
		p.Name, p.CountryISOAlpha2)
	if err != nil {
		return 0, fmt.Errorf("failed to create provider %q: %w", p.Name, err)
	}
	return lastID(result)
}

// CreateAccount inserts an account and returns its generated id.
func (r *EntityRepository) CreateAccount(ctx context.Context, a NewAccount) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO account (name, account_type_id, provider_id, holder_1_id, holder_2_id, holder_3_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.AccountTypeID, a.ProviderID, a.Holder1ID, nullInt(a.Holder2ID), nullInt(a.Holder3ID))
	if err != nil {
		return 0, fmt.Errorf("failed to create account %q: %w", a.Name, err)
	}
	r.log.Debug().Str("account", a.Name).Msg("Account created")
	return lastID(result)
}

// CreateFinancialProduct inserts a financial product and returns its generated id.
func (r *EntityRepository) CreateFinancialProduct(ctx context.Context, p NewFinancialProduct) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO financial_product (name, financial_product_type_id, currency, provider_id, holder_id, ticker, isin)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.FinancialProductTypeID, p.Currency, p.ProviderID, p.HolderID,
		nullString(p.Ticker), nullString(p.ISIN))
	if err != nil {
		return 0, fmt.Errorf("failed to create financial product %q: %w", p.Name, err)
	}
	r.log.Debug().Str("product", p.Name).Msg("Financial product created")
	return lastID(result)
}

func lastID(result sql.Result) (int64, error) {
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}
	return id, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
