package schema

import (
	"fmt"
	"strings"
)

// Foreign-key referential actions.
const (
	Cascade  = "CASCADE"
	SetNull  = "SET NULL"
	Restrict = "RESTRICT"
	NoAction = "NO ACTION"
)

// Constraint is a named table-level constraint.
type Constraint interface {
	SQL() string
	ConstraintName() string
}

// PrimaryKey declares a (possibly composite) primary key.
type PrimaryKey struct {
	Name    string
	Columns []string
}

func (p PrimaryKey) ConstraintName() string { return p.Name }

func (p PrimaryKey) SQL() string {
	return fmt.Sprintf(`CONSTRAINT "%s" PRIMARY KEY (%s)`, p.Name, quoteList(p.Columns))
}

// Unique declares a uniqueness constraint.
type Unique struct {
	Name    string
	Columns []string
}

func (u Unique) ConstraintName() string { return u.Name }

func (u Unique) SQL() string {
	return fmt.Sprintf(`CONSTRAINT "%s" UNIQUE (%s)`, u.Name, quoteList(u.Columns))
}

// Check declares a CHECK constraint over an expression.
type Check struct {
	Name string
	Expr string
}

func (c Check) ConstraintName() string { return c.Name }

func (c Check) SQL() string {
	return fmt.Sprintf(`CONSTRAINT "%s" CHECK (%s)`, c.Name, c.Expr)
}

// ForeignKey declares a foreign key to another table.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string // one of the action constants; empty means RESTRICT
}

func (f ForeignKey) ConstraintName() string { return f.Name }

func (f ForeignKey) SQL() string {
	onDelete := f.OnDelete
	if onDelete == "" {
		onDelete = Restrict
	}
	return fmt.Sprintf(`CONSTRAINT "%s" FOREIGN KEY (%s) REFERENCES "%s" (%s) ON DELETE %s`,
		f.Name, quoteList(f.Columns), f.RefTable, quoteList(f.RefColumns), onDelete)
}

func quoteList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + c + `"`
	}
	return strings.Join(quoted, ", ")
}
