package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bread-finance/bread/internal/database"
	"github.com/bread-finance/bread/internal/schema"
)

var storeCounter atomic.Int64

// fixture is an initialized store with one holder, provider, account and
// financial product.
type fixture struct {
	db        *sql.DB
	holderID  int64
	provider  int64
	accountID int64
	productID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	n := storeCounter.Add(1)
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", n),
		Profile: database.ProfileStandard,
		Name:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, schema.NewManager(db, zerolog.Nop()).Initialize(ctx))

	entities := NewEntityRepository(db.Conn(), zerolog.Nop())
	holderID, err := entities.CreateHolder(ctx, NewHolder{Name: "Alice"})
	require.NoError(t, err)
	providerID, err := entities.CreateProvider(ctx, NewProvider{Name: "Big Bank", CountryISOAlpha2: "GB"})
	require.NoError(t, err)
	accountID, err := entities.CreateAccount(ctx, NewAccount{
		Name:          "Everyday",
		AccountTypeID: 1, // Checking
		ProviderID:    providerID,
		Holder1ID:     holderID,
	})
	require.NoError(t, err)
	productID, err := entities.CreateFinancialProduct(ctx, NewFinancialProduct{
		Name:                   "World ETF",
		FinancialProductTypeID: 4, // ETF
		Currency:               "EUR",
		ProviderID:             providerID,
		HolderID:               holderID,
	})
	require.NoError(t, err)

	return &fixture{
		db:        db.Conn(),
		holderID:  holderID,
		provider:  providerID,
		accountID: accountID,
		productID: productID,
	}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReferenceRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	refs := NewReferenceRepository(f.db, zerolog.Nop())

	types, err := refs.TransactionTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 6)
	assert.Equal(t, ReferenceEntry{ID: 1, Name: "Purchase"}, types[0])
	assert.Equal(t, ReferenceEntry{ID: 6, Name: "Transfer"}, types[5])

	accountTypes, err := refs.AccountTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, accountTypes, 8)

	productTypes, err := refs.FinancialProductTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, productTypes, 6)

	id, err := refs.TransactionTypeID(ctx, "Dividend")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, err = refs.TransactionTypeID(ctx, "Gift")
	require.Error(t, err)
}

func TestEntityRepository_JointAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entities := NewEntityRepository(f.db, zerolog.Nop())

	bobID, err := entities.CreateHolder(ctx, NewHolder{Name: "Bob"})
	require.NoError(t, err)

	accountID, err := entities.CreateAccount(ctx, NewAccount{
		Name:          "Joint Savings",
		AccountTypeID: 2, // Savings
		ProviderID:    f.provider,
		Holder1ID:     f.holderID,
		Holder2ID:     &bobID,
	})
	require.NoError(t, err)
	assert.Greater(t, accountID, f.accountID, "surrogate ids are monotonic")

	var holder2 sql.NullInt64
	require.NoError(t, f.db.QueryRow(`SELECT holder_2_id FROM account WHERE id = ?`, accountID).Scan(&holder2))
	assert.Equal(t, bobID, holder2.Int64)
}

func TestLedgerRepository_Append(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := NewLedgerRepository(f.db, zerolog.Nop())

	desc := "groceries"
	id1, err := ledger.AppendAccountTransaction(ctx, AccountEntry{
		Date:              day("2024-05-01"),
		AccountID:         f.accountID,
		TransactionTypeID: 1, // Purchase
		Amount:            dec(t, "-42.9900"),
		Description:       &desc,
	})
	require.NoError(t, err)

	id2, err := ledger.AppendAccountTransaction(ctx, AccountEntry{
		Date:              day("2024-05-02"),
		AccountID:         f.accountID,
		TransactionTypeID: 4, // Interest
		Amount:            dec(t, "1.2300"),
	})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	units := dec(t, "2.5000")
	unitValue := dec(t, "101.1100")
	_, err = ledger.AppendProductTransaction(ctx, ProductEntry{
		Date:               day("2024-05-03"),
		FinancialProductID: f.productID,
		TransactionTypeID:  1, // Purchase
		Units:              &units,
		UnitValue:          &unitValue,
		Amount:             dec(t, "-252.7750"),
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM account_transaction`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestLedgerRepository_RejectsUnknownAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := NewLedgerRepository(f.db, zerolog.Nop())

	_, err := ledger.AppendAccountTransaction(ctx, AccountEntry{
		Date:              day("2024-05-01"),
		AccountID:         999,
		TransactionTypeID: 1,
		Amount:            dec(t, "10"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY constraint")
}

func TestTemporalRepository_BalanceUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	temporal := NewTemporalRepository(f.db, zerolog.Nop())
	date := day("2024-05-01")

	require.NoError(t, temporal.UpsertAccountBalance(ctx, date, f.accountID, dec(t, "120.0000")))

	// Re-ingesting the same (date, account) updates in place.
	require.NoError(t, temporal.UpsertAccountBalance(ctx, date, f.accountID, dec(t, "125.5000")))

	got, err := temporal.AccountBalanceOn(ctx, date, f.accountID)
	require.NoError(t, err)
	assert.True(t, dec(t, "125.5000").Equal(got))

	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM account_balance`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTemporalRepository_InsertDoesNotOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	temporal := NewTemporalRepository(f.db, zerolog.Nop())
	date := day("2024-05-01")

	require.NoError(t, temporal.InsertAccountBalance(ctx, date, f.accountID, dec(t, "120.0000")))

	err := temporal.InsertAccountBalance(ctx, date, f.accountID, dec(t, "999.0000"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint")

	got, err := temporal.AccountBalanceOn(ctx, date, f.accountID)
	require.NoError(t, err)
	assert.True(t, dec(t, "120.0000").Equal(got))
}

func TestTemporalRepository_ProductValueAndRates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	temporal := NewTemporalRepository(f.db, zerolog.Nop())
	date := day("2024-05-01")

	units := dec(t, "10.0000")
	unitValue := dec(t, "101.5000")
	require.NoError(t, temporal.UpsertProductValue(ctx, date, f.productID, dec(t, "1015.0000"), &units, &unitValue))
	require.NoError(t, temporal.UpsertProductValue(ctx, date, f.productID, dec(t, "1020.0000"), &units, nil))

	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM product_value`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, temporal.UpsertExchangeRate(ctx, date, "EUR", "USD", dec(t, "1.0850")))
	require.NoError(t, temporal.UpsertExchangeRate(ctx, date, "EUR", "USD", dec(t, "1.0900")))
	require.NoError(t, temporal.UpsertExchangeRate(ctx, date, "EUR", "GBP", dec(t, "0.8500")))

	rate, err := temporal.ExchangeRateOn(ctx, date, "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, dec(t, "1.0900").Equal(rate))

	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM exchange_rate`).Scan(&count))
	assert.Equal(t, 2, count)
}
