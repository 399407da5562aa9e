package schema

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bread-finance/bread/internal/database"
)

var storeCounter atomic.Int64

func newTestManager(t *testing.T) (*Manager, *database.DB) {
	t.Helper()
	n := storeCounter.Add(1)
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:schema_test_%d?mode=memory&cache=shared", n),
		Profile: database.ProfileStandard,
		Name:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewManager(db, zerolog.Nop()), db
}

func userTables(t *testing.T, db *database.DB) map[string]string {
	t.Helper()
	rows, err := db.Query(`SELECT name, sql FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, ddl string
		require.NoError(t, rows.Scan(&name, &ddl))
		out[name] = ddl
	}
	require.NoError(t, rows.Err())
	return out
}

func TestInitialize_CreatesAllTables(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	initialized, err := m.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)

	require.NoError(t, m.Initialize(ctx))

	tables := userTables(t, db)
	assert.Len(t, tables, 12)
	for _, table := range Tables() {
		assert.Contains(t, tables, table.Name())
	}

	initialized, err = m.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestInitialize_Idempotent(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	before := userTables(t, db)

	require.NoError(t, m.Initialize(ctx))
	after := userTables(t, db)

	assert.Equal(t, before, after)

	// Seed rows were not duplicated either.
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transaction_type`).Scan(&count))
	assert.Equal(t, 6, count)
}

func TestInitialize_SeedsExactRows(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	rows, err := db.Query(`SELECT id, name FROM transaction_type ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id int64
		var name string
		require.NoError(t, rows.Scan(&id, &name))
		got = append(got, fmt.Sprintf("%d=%s", id, name))
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"1=Purchase", "2=Sale", "3=Dividend", "4=Interest", "5=Fee", "6=Transfer"}, got)

	var accountTypes, productTypes int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM account_type`).Scan(&accountTypes))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM financial_product_type`).Scan(&productTypes))
	assert.Equal(t, 8, accountTypes)
	assert.Equal(t, 6, productTypes)
}

func TestInitializeWith_NoSeed(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.InitializeWith(ctx, InitOptions{Seed: false}))

	assert.Len(t, userTables(t, db), 12)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transaction_type`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestInitialize_CompletesPartialInstall(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	_, err := db.Exec(`DROP TABLE account_balance`)
	require.NoError(t, err)
	_, err = db.Exec(`DROP TABLE product_value`)
	require.NoError(t, err)

	require.NoError(t, m.Initialize(ctx))
	tables := userTables(t, db)
	assert.Contains(t, tables, "account_balance")
	assert.Contains(t, tables, "product_value")
}

func TestCreateTable_OutOfOrderFails(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	// account_transaction references account and transaction_type, neither
	// of which exists on an empty store.
	err := m.CreateTable(ctx, AccountTransaction)
	require.Error(t, err)

	var tableErr *TableError
	require.True(t, errors.As(err, &tableErr))
	assert.Equal(t, "create", tableErr.Op)
	assert.Equal(t, "account_transaction", tableErr.Table)
	assert.Contains(t, tableErr.Error(), "does not exist")
}

func TestInitialize_SeedConflictReported(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	_, err := db.Exec(`UPDATE transaction_type SET name = 'Bogus' WHERE id = 1`)
	require.NoError(t, err)

	err = m.Initialize(ctx)
	require.Error(t, err)

	var conflict *SeedConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "transaction_type", conflict.Table)
	assert.Equal(t, int64(1), conflict.ID)
	assert.Equal(t, "Purchase", conflict.Want)
	assert.Equal(t, "Bogus", conflict.Got)

	// The conflicting row is reported, never overwritten.
	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM transaction_type WHERE id = 1`).Scan(&name))
	assert.Equal(t, "Bogus", name)
}

func TestForeignKeyViolation(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := db.Exec(`INSERT INTO holder (name) VALUES ('Alice')`)
	require.NoError(t, err)

	// provider_id 999 does not exist.
	_, err = db.Exec(`
		INSERT INTO account (name, account_type_id, provider_id, holder_1_id)
		VALUES ('Everyday', 1, 999, 1)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOREIGN KEY constraint")
}

func TestDuplicateBalanceSnapshotFails(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := db.Exec(`INSERT INTO holder (name) VALUES ('Alice')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO provider (name, country_iso_alpha2) VALUES ('Big Bank', 'GB')`)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO account (name, account_type_id, provider_id, holder_1_id)
		VALUES ('Everyday', 1, 1, 1)
	`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO account_balance (date, account_id, balance) VALUES ('2024-05-01', 1, ?)`,
		DecimalValue(mustDecimal(t, "120.0000")))
	require.NoError(t, err)

	// Same (date, account_id): uniqueness violation, not an overwrite.
	_, err = db.Exec(`INSERT INTO account_balance (date, account_id, balance) VALUES ('2024-05-01', 1, ?)`,
		DecimalValue(mustDecimal(t, "999.0000")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint")
}

func TestDropThenInitialize(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.Drop(ctx))

	initialized, err := m.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)

	require.NoError(t, m.Initialize(ctx))
	initialized, err = m.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestDecimalRoundTrip_NoDrift(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := db.Exec(`INSERT INTO holder (name) VALUES ('Alice')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO provider (name, country_iso_alpha2) VALUES ('Big Bank', 'GB')`)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO account (name, account_type_id, provider_id, holder_1_id)
		VALUES ('Everyday', 1, 1, 1)
	`)
	require.NoError(t, err)

	// Large enough to lose precision through a float64.
	exact := mustDecimal(t, "12345678901234.5678")
	_, err = db.Exec(`INSERT INTO account_balance (date, account_id, balance) VALUES ('2024-05-01', 1, ?)`,
		DecimalValue(exact))
	require.NoError(t, err)

	var raw []byte
	require.NoError(t, db.QueryRow(`SELECT balance FROM account_balance WHERE account_id = 1`).Scan(&raw))
	got, err := ParseDecimal(raw)
	require.NoError(t, err)
	assert.True(t, exact.Equal(got), "expected %s, got %s", exact, got)
}
