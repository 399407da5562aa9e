package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bread-finance/bread/internal/schema"
)

// TemporalRepository writes the point-in-time tables: balances,
// valuations, exchange rates. Each is keyed by its natural (date, entity)
// key, so re-ingesting a date is an update of that day's fact, never a
// duplicate. Plain Insert variants surface the uniqueness violation for
// callers that must not overwrite.
type TemporalRepository struct {
	*BaseRepository
}

// NewTemporalRepository creates a new temporal repository
func NewTemporalRepository(db *sql.DB, log zerolog.Logger) *TemporalRepository {
	return &TemporalRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "temporal").Logger()),
	}
}

// UpsertAccountBalance records the balance snapshot of an account on a date.
func (r *TemporalRepository) UpsertAccountBalance(ctx context.Context, date time.Time, accountID int64, balance decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO account_balance (date, account_id, balance)
		VALUES (?, ?, ?)
		ON CONFLICT (date, account_id) DO UPDATE SET balance = excluded.balance`,
		schema.DateValue(date), accountID, schema.DecimalValue(balance))
	if err != nil {
		return fmt.Errorf("failed to upsert balance for account %d: %w", accountID, err)
	}
	return nil
}

// InsertAccountBalance records a snapshot, failing on an existing
// (date, account) pair instead of overwriting it.
func (r *TemporalRepository) InsertAccountBalance(ctx context.Context, date time.Time, accountID int64, balance decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_balance (date, account_id, balance) VALUES (?, ?, ?)`,
		schema.DateValue(date), accountID, schema.DecimalValue(balance))
	if err != nil {
		return fmt.Errorf("failed to insert balance for account %d: %w", accountID, err)
	}
	return nil
}

// AccountBalanceOn reads the balance snapshot of an account on a date.
func (r *TemporalRepository) AccountBalanceOn(ctx context.Context, date time.Time, accountID int64) (decimal.Decimal, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT balance FROM account_balance WHERE date = ? AND account_id = ?`,
		schema.DateValue(date), accountID).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, fmt.Errorf("no balance for account %d on %s", accountID, schema.DateValue(date))
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to read balance for account %d: %w", accountID, err)
	}
	return schema.ParseDecimal(raw)
}

// UpsertProductValue records the valuation of a product on a date.
func (r *TemporalRepository) UpsertProductValue(ctx context.Context, date time.Time, productID int64, currentValue decimal.Decimal, units, unitValue *decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_value (date, financial_product_id, current_value, units, unit_value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (date, financial_product_id) DO UPDATE SET
			current_value = excluded.current_value,
			units = excluded.units,
			unit_value = excluded.unit_value`,
		schema.DateValue(date), productID, schema.DecimalValue(currentValue),
		nullDecimal(units), nullDecimal(unitValue))
	if err != nil {
		return fmt.Errorf("failed to upsert value for product %d: %w", productID, err)
	}
	return nil
}

// UpsertExchangeRate records the rate of a currency pair on a date.
func (r *TemporalRepository) UpsertExchangeRate(ctx context.Context, date time.Time, base, target string, rate decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exchange_rate (date, base_currency, target_currency, exchange_rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date, base_currency, target_currency) DO UPDATE SET exchange_rate = excluded.exchange_rate`,
		schema.DateValue(date), base, target, schema.DecimalValue(rate))
	if err != nil {
		return fmt.Errorf("failed to upsert rate %s/%s: %w", base, target, err)
	}
	return nil
}

// ExchangeRateOn reads the rate of a currency pair on a date.
func (r *TemporalRepository) ExchangeRateOn(ctx context.Context, date time.Time, base, target string) (decimal.Decimal, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT exchange_rate FROM exchange_rate WHERE date = ? AND base_currency = ? AND target_currency = ?`,
		schema.DateValue(date), base, target).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, fmt.Errorf("no rate for %s/%s on %s", base, target, schema.DateValue(date))
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to read rate %s/%s: %w", base, target, err)
	}
	return schema.ParseDecimal(raw)
}
