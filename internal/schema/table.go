// Package schema defines the ledger data model declaratively and applies
// it to the store: table and constraint definitions, seed data, dependency
// stratification, idempotent creation, and shape validation.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Column is a single column definition.
type Column struct {
	Name    string
	Type    Type
	NotNull bool
	// Identity marks the store-generated surrogate key. Rendered as
	// INTEGER PRIMARY KEY AUTOINCREMENT so ids are unique, monotonic
	// and never reused.
	Identity bool
}

func (c Column) sql() string {
	if c.Identity {
		return fmt.Sprintf(`"%s" INTEGER PRIMARY KEY AUTOINCREMENT`, c.Name)
	}
	def := fmt.Sprintf(`"%s" %s`, c.Name, c.Type.SQL())
	if c.NotNull {
		def += " NOT NULL"
	}
	return def
}

// Cell is one column/value pair of a row.
type Cell struct {
	Column string
	Value  any
}

// Row is an ordered set of column values destined for one table row.
// Order is preserved so generated SQL is deterministic.
type Row []Cell

// Get returns the value for a column and whether it is present.
func (r Row) Get(column string) (any, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// Execer is the subset of database operations the schema model needs.
// Satisfied by *sql.DB, *sql.Tx and the database wrapper.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Table is a declarative table definition: columns, constraints and
// optional seed rows. Definitions are built fluently and are immutable
// once the catalog is assembled.
type Table struct {
	name        string
	columns     []Column
	constraints []Constraint
	seed        []Row
}

// NewTable starts a table definition.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// WithColumns sets the table columns. Supports chaining.
func (t *Table) WithColumns(cols ...Column) *Table {
	t.columns = cols
	return t
}

// WithConstraint appends a table constraint. Supports chaining.
func (t *Table) WithConstraint(c Constraint) *Table {
	t.constraints = append(t.constraints, c)
	return t
}

// WithSeed attaches the rows inserted at first initialization. Supports chaining.
func (t *Table) WithSeed(rows ...Row) *Table {
	t.seed = rows
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the column definitions.
func (t *Table) Columns() []Column { return t.columns }

// Seed returns the seed rows, nil for unseeded tables.
func (t *Table) Seed() []Row { return t.seed }

// ForeignKeys returns the declared foreign keys.
func (t *Table) ForeignKeys() []ForeignKey {
	var fks []ForeignKey
	for _, c := range t.constraints {
		if fk, ok := c.(ForeignKey); ok {
			fks = append(fks, fk)
		}
	}
	return fks
}

// PrimaryKeyColumns returns the columns forming the primary key, whether
// declared through an identity column or a PrimaryKey constraint.
func (t *Table) PrimaryKeyColumns() []string {
	for _, c := range t.columns {
		if c.Identity {
			return []string{c.Name}
		}
	}
	for _, c := range t.constraints {
		if pk, ok := c.(PrimaryKey); ok {
			return pk.Columns
		}
	}
	return nil
}

// CreateSQL renders the idempotent creation statement.
func (t *Table) CreateSQL() string {
	parts := make([]string, 0, len(t.columns)+len(t.constraints))
	for _, col := range t.columns {
		parts = append(parts, col.sql())
	}
	for _, c := range t.constraints {
		parts = append(parts, c.SQL())
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (%s)`, t.name, strings.Join(parts, ", "))
}

// DropSQL renders the idempotent drop statement.
func (t *Table) DropSQL() string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, t.name)
}

// column returns the definition of a named column.
func (t *Table) column(name string) (Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ValidateRow checks a row against the table definition before it is
// allowed anywhere near the store: no unknown columns, identity columns
// only for seed rows with explicit ids, required columns present, no
// nulls in NOT NULL columns, values bindable by the column type.
func (t *Table) ValidateRow(row Row) error {
	for _, cell := range row {
		col, ok := t.column(cell.Column)
		if !ok {
			return fmt.Errorf("table %s has no column %q", t.name, cell.Column)
		}
		if cell.Value == nil {
			if col.NotNull {
				return fmt.Errorf("column %s.%s is NOT NULL but value is nil", t.name, cell.Column)
			}
			continue
		}
		if _, err := t.bindCell(col, cell); err != nil {
			return err
		}
	}

	for _, col := range t.columns {
		if col.Identity {
			continue
		}
		if _, ok := row.Get(col.Name); !ok && col.NotNull {
			return fmt.Errorf("column %s.%s is required but missing", t.name, col.Name)
		}
	}
	return nil
}

func (t *Table) bindCell(col Column, cell Cell) (any, error) {
	if cell.Value == nil {
		return nil, nil
	}
	// Identity values appear only in seed rows, which carry explicit ids.
	if col.Identity {
		return bigIntType{}.Bind(cell.Value)
	}
	v, err := col.Type.Bind(cell.Value)
	if err != nil {
		return nil, fmt.Errorf("column %s.%s: %w", t.name, col.Name, err)
	}
	return v, nil
}

// Insert validates and inserts rows, one statement per row.
func (t *Table) Insert(ctx context.Context, ex Execer, rows ...Row) error {
	for _, row := range rows {
		if err := t.ValidateRow(row); err != nil {
			return err
		}
		query, args, err := t.insertSQL(row)
		if err != nil {
			return err
		}
		if _, err := ex.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", t.name, err)
		}
	}
	return nil
}

func (t *Table) insertSQL(row Row) (string, []any, error) {
	columns := make([]string, 0, len(row))
	placeholders := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for _, cell := range row {
		col, ok := t.column(cell.Column)
		if !ok {
			return "", nil, fmt.Errorf("table %s has no column %q", t.name, cell.Column)
		}
		bound, err := t.bindCell(col, cell)
		if err != nil {
			return "", nil, err
		}
		columns = append(columns, `"`+cell.Column+`"`)
		placeholders = append(placeholders, "?")
		args = append(args, bound)
	}
	query := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		t.name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return query, args, nil
}
