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

// LedgerRepository appends ledger movements. Append-only: transaction
// rows are never updated or deleted, corrections are compensating rows.
// The sign convention of amounts (outflow negative, inflow positive) is
// the application's business rule; nothing is enforced here.
type LedgerRepository struct {
	*BaseRepository
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *sql.DB, log zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "ledger").Logger()),
	}
}

// AccountEntry is one ledger movement against an account.
type AccountEntry struct {
	Date              time.Time
	AccountID         int64
	TransactionTypeID int64
	Amount            decimal.Decimal // signed
	Description       *string
}

// ProductEntry is one ledger movement against a financial product.
type ProductEntry struct {
	Date               time.Time
	FinancialProductID int64
	TransactionTypeID  int64
	Units              *decimal.Decimal
	UnitValue          *decimal.Decimal
	Amount             decimal.Decimal // signed
}

// AppendAccountTransaction appends an account movement and returns its
// generated id.
func (r *LedgerRepository) AppendAccountTransaction(ctx context.Context, e AccountEntry) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO account_transaction (date, account_id, transaction_type_id, transaction_amount, description)
		VALUES (?, ?, ?, ?, ?)`,
		schema.DateValue(e.Date), e.AccountID, e.TransactionTypeID,
		schema.DecimalValue(e.Amount), nullString(e.Description))
	if err != nil {
		return 0, fmt.Errorf("failed to append account transaction: %w", err)
	}
	id, err := lastID(result)
	if err != nil {
		return 0, err
	}
	r.log.Debug().Int64("account_id", e.AccountID).Int64("id", id).Msg("Account transaction appended")
	return id, nil
}

// AppendProductTransaction appends a product movement and returns its
// generated id.
func (r *LedgerRepository) AppendProductTransaction(ctx context.Context, e ProductEntry) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO product_transaction (date, financial_product_id, transaction_type_id, units, unit_value, transaction_amount)
		VALUES (?, ?, ?, ?, ?, ?)`,
		schema.DateValue(e.Date), e.FinancialProductID, e.TransactionTypeID,
		nullDecimal(e.Units), nullDecimal(e.UnitValue), schema.DecimalValue(e.Amount))
	if err != nil {
		return 0, fmt.Errorf("failed to append product transaction: %w", err)
	}
	id, err := lastID(result)
	if err != nil {
		return 0, err
	}
	r.log.Debug().Int64("product_id", e.FinancialProductID).Int64("id", id).Msg("Product transaction appended")
	return id, nil
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return schema.DecimalValue(*d)
}
