package schema

// money is the fixed-point type for every monetary and quantity column.
// Four fractional digits, no floating-point representation anywhere.
var money = Numeric(19, 4)

// typeRow builds one reference-table row. Reference ids are part of the
// public contract: consumers hard-code them.
func typeRow(id int64, name string) Row {
	return Row{{"id", id}, {"name", name}}
}

// AccountType enumerates the kinds of accounts. Immutable post-seed.
var AccountType = NewTable("account_type").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
	).
	WithConstraint(Unique{Name: "unq_account_type_name", Columns: []string{"name"}}).
	WithSeed(
		typeRow(1, "Checking"),
		typeRow(2, "Savings"),
		typeRow(3, "Credit Card"),
		typeRow(4, "Investment"),
		typeRow(5, "Loan"),
		typeRow(6, "Mortgage"),
		typeRow(7, "Cash"),
		typeRow(8, "Other"),
	)

// TransactionType enumerates the kinds of ledger movements. Immutable post-seed.
var TransactionType = NewTable("transaction_type").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
	).
	WithConstraint(Unique{Name: "unq_transaction_type_name", Columns: []string{"name"}}).
	WithSeed(
		typeRow(1, "Purchase"),
		typeRow(2, "Sale"),
		typeRow(3, "Dividend"),
		typeRow(4, "Interest"),
		typeRow(5, "Fee"),
		typeRow(6, "Transfer"),
	)

// FinancialProductType enumerates the kinds of financial products. Immutable post-seed.
var FinancialProductType = NewTable("financial_product_type").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
	).
	WithConstraint(Unique{Name: "unq_financial_product_type_name", Columns: []string{"name"}}).
	WithSeed(
		typeRow(1, "Stock"),
		typeRow(2, "Bond"),
		typeRow(3, "Investment Fund"),
		typeRow(4, "ETF"),
		typeRow(5, "REIT"),
		typeRow(6, "Cryptocurrency"),
	)

// Holder is a person or entity owning accounts or products.
var Holder = NewTable("holder").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
		Column{Name: "tax_bracket", Type: Text()},
	).
	WithConstraint(Unique{Name: "unq_holder_name", Columns: []string{"name"}})

// Provider is an institution holding accounts or products on behalf of a holder.
var Provider = NewTable("provider").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
		Column{Name: "country_iso_alpha2", Type: Text()},
	).
	WithConstraint(Unique{Name: "unq_provider_name", Columns: []string{"name"}})

// Account is a bank/credit/cash account, owned by up to three holders.
var Account = NewTable("account").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
		Column{Name: "account_type_id", Type: BigInt(), NotNull: true},
		Column{Name: "provider_id", Type: BigInt(), NotNull: true},
		Column{Name: "holder_1_id", Type: BigInt(), NotNull: true},
		Column{Name: "holder_2_id", Type: BigInt()},
		Column{Name: "holder_3_id", Type: BigInt()},
	).
	WithConstraint(Unique{Name: "unq_account_name", Columns: []string{"name"}}).
	WithConstraint(ForeignKey{Name: "fk_account_account_type", Columns: []string{"account_type_id"}, RefTable: "account_type", RefColumns: []string{"id"}}).
	WithConstraint(ForeignKey{Name: "fk_account_provider", Columns: []string{"provider_id"}, RefTable: "provider", RefColumns: []string{"id"}}).
	WithConstraint(ForeignKey{Name: "fk_account_holder_1", Columns: []string{"holder_1_id"}, RefTable: "holder", RefColumns: []string{"id"}}).
	WithConstraint(ForeignKey{Name: "fk_account_holder_2", Columns: []string{"holder_2_id"}, RefTable: "holder", RefColumns: []string{"id"}}).
	WithConstraint(ForeignKey{Name: "fk_account_holder_3", Columns: []string{"holder_3_id"}, RefTable: "holder", RefColumns: []string{"id"}})

// AccountTransaction is a ledger movement against an account. Append-only.
var AccountTransaction = NewTable("account_transaction").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "date", Type: Date(), NotNull: true},
		Column{Name: "account_id", Type: BigInt(), NotNull: true},
		Column{Name: "transaction_type_id", Type: BigInt(), NotNull: true},
		Column{Name: "transaction_amount", Type: money, NotNull: true},
		Column{Name: "description", Type: Text()},
	).
	WithConstraint(ForeignKey{Name: "fk_account_transaction_account", Columns: []string{"account_id"}, RefTable: "account", RefColumns: []string{"id"}, OnDelete: Cascade}).
	WithConstraint(ForeignKey{Name: "fk_account_transaction_transaction_type", Columns: []string{"transaction_type_id"}, RefTable: "transaction_type", RefColumns: []string{"id"}})

// AccountBalance is a point-in-time balance snapshot: at most one per
// account per date.
var AccountBalance = NewTable("account_balance").
	WithColumns(
		Column{Name: "date", Type: Date(), NotNull: true},
		Column{Name: "account_id", Type: BigInt(), NotNull: true},
		Column{Name: "balance", Type: money, NotNull: true},
	).
	WithConstraint(PrimaryKey{Name: "pk_account_balance", Columns: []string{"date", "account_id"}}).
	WithConstraint(ForeignKey{Name: "fk_account_balance_account", Columns: []string{"account_id"}, RefTable: "account", RefColumns: []string{"id"}, OnDelete: Cascade})

// FinancialProduct is a tradeable instrument held with a provider.
var FinancialProduct = NewTable("financial_product").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "name", Type: Text(), NotNull: true},
		Column{Name: "financial_product_type_id", Type: BigInt(), NotNull: true},
		Column{Name: "currency", Type: Text(), NotNull: true},
		Column{Name: "provider_id", Type: BigInt(), NotNull: true},
		Column{Name: "holder_id", Type: BigInt(), NotNull: true},
		Column{Name: "ticker", Type: Text()},
		Column{Name: "isin", Type: Text()},
	).
	WithConstraint(Unique{Name: "unq_financial_product_name", Columns: []string{"name"}}).
	WithConstraint(ForeignKey{Name: "fk_financial_product_financial_product_type", Columns: []string{"financial_product_type_id"}, RefTable: "financial_product_type", RefColumns: []string{"id"}}).
	WithConstraint(ForeignKey{Name: "fk_financial_product_provider", Columns: []string{"provider_id"}, RefTable: "provider", RefColumns: []string{"id"}}).
	WithConstraint(ForeignKey{Name: "fk_financial_product_holder", Columns: []string{"holder_id"}, RefTable: "holder", RefColumns: []string{"id"}})

// ProductTransaction is a ledger movement against a financial product. Append-only.
var ProductTransaction = NewTable("product_transaction").
	WithColumns(
		Column{Name: "id", Type: BigInt(), Identity: true},
		Column{Name: "date", Type: Date(), NotNull: true},
		Column{Name: "financial_product_id", Type: BigInt(), NotNull: true},
		Column{Name: "transaction_type_id", Type: BigInt(), NotNull: true},
		Column{Name: "units", Type: money},
		Column{Name: "unit_value", Type: money},
		Column{Name: "transaction_amount", Type: money, NotNull: true},
	).
	WithConstraint(ForeignKey{Name: "fk_product_transaction_financial_product", Columns: []string{"financial_product_id"}, RefTable: "financial_product", RefColumns: []string{"id"}, OnDelete: Cascade}).
	WithConstraint(ForeignKey{Name: "fk_product_transaction_transaction_type", Columns: []string{"transaction_type_id"}, RefTable: "transaction_type", RefColumns: []string{"id"}})

// ProductValue is a point-in-time valuation: at most one per product per date.
var ProductValue = NewTable("product_value").
	WithColumns(
		Column{Name: "date", Type: Date(), NotNull: true},
		Column{Name: "financial_product_id", Type: BigInt(), NotNull: true},
		Column{Name: "current_value", Type: money, NotNull: true},
		Column{Name: "units", Type: money},
		Column{Name: "unit_value", Type: money},
	).
	WithConstraint(PrimaryKey{Name: "pk_product_value", Columns: []string{"date", "financial_product_id"}}).
	WithConstraint(ForeignKey{Name: "fk_product_value_financial_product", Columns: []string{"financial_product_id"}, RefTable: "financial_product", RefColumns: []string{"id"}, OnDelete: Cascade})

// ExchangeRate records at most one rate per currency pair per date.
var ExchangeRate = NewTable("exchange_rate").
	WithColumns(
		Column{Name: "date", Type: Date(), NotNull: true},
		Column{Name: "base_currency", Type: Text(), NotNull: true},
		Column{Name: "target_currency", Type: Text(), NotNull: true},
		Column{Name: "exchange_rate", Type: money, NotNull: true},
	).
	WithConstraint(PrimaryKey{Name: "pk_exchange_rate", Columns: []string{"date", "base_currency", "target_currency"}})

// Tables returns every table of the ledger schema. Declaration order is
// arbitrary; creation order is derived from the declared foreign keys.
func Tables() []*Table {
	return []*Table{
		AccountType,
		TransactionType,
		FinancialProductType,
		Holder,
		Provider,
		ExchangeRate,
		Account,
		FinancialProduct,
		AccountTransaction,
		AccountBalance,
		ProductTransaction,
		ProductValue,
	}
}
