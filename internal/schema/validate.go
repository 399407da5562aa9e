package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// ValidationResult contains the findings of a full schema validation.
// Findings accumulate; validation never stops at the first problem.
type ValidationResult struct {
	MissingTables   []string // expected tables absent from the store
	ColumnFindings  []string // column-set or nullability mismatches (format: "table: detail")
	KeyFindings     []string // primary/foreign key mismatches (format: "table: detail")
	SeedFindings    []string // missing or conflicting reference seed rows
	TablesValidated int
}

// IsValid reports whether the installed schema matches the expected shape.
func (r *ValidationResult) IsValid() bool {
	return len(r.MissingTables) == 0 &&
		len(r.ColumnFindings) == 0 &&
		len(r.KeyFindings) == 0 &&
		len(r.SeedFindings) == 0
}

// PartialInit returns a PartialInitError when the store holds some but
// not all expected tables, nil otherwise.
func (r *ValidationResult) PartialInit() *PartialInitError {
	if len(r.MissingTables) == 0 || r.TablesValidated == 0 {
		return nil
	}
	present := make([]string, 0, r.TablesValidated)
	for _, t := range Tables() {
		missing := false
		for _, name := range r.MissingTables {
			if name == t.Name() {
				missing = true
				break
			}
		}
		if !missing {
			present = append(present, t.Name())
		}
	}
	return &PartialInitError{Present: present, Missing: r.MissingTables}
}

// Validate checks every expected table against the installed schema:
// existence, column set, nullability, primary key, foreign keys, and
// reference seed contents.
func (m *Manager) Validate(ctx context.Context) (*ValidationResult, error) {
	if err := m.db.QuickCheck(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	result := &ValidationResult{}
	for _, t := range m.tables {
		exists, err := m.tableExists(ctx, t.Name())
		if err != nil {
			return nil, err
		}
		if !exists {
			result.MissingTables = append(result.MissingTables, t.Name())
			continue
		}
		result.TablesValidated++

		if err := m.validateColumns(ctx, t, result); err != nil {
			return nil, err
		}
		if err := m.validateForeignKeys(ctx, t, result); err != nil {
			return nil, err
		}
		if err := m.validateSeed(ctx, t, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// installedColumn is one row of PRAGMA table_info.
type installedColumn struct {
	notNull bool
	pkIndex int // 1-based position within the primary key, 0 if not part of it
}

func (m *Manager) validateColumns(ctx context.Context, t *Table, result *ValidationResult) error {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info("%s")`, t.Name()))
	if err != nil {
		return fmt.Errorf("failed to inspect table %s: %w", t.Name(), err)
	}
	defer rows.Close()

	installed := make(map[string]installedColumn)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("failed to scan column info for %s: %w", t.Name(), err)
		}
		installed[name] = installedColumn{notNull: notNull == 1, pkIndex: pk}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating column info for %s: %w", t.Name(), err)
	}

	for _, col := range t.Columns() {
		got, ok := installed[col.Name]
		if !ok {
			result.ColumnFindings = append(result.ColumnFindings,
				fmt.Sprintf("%s: column %q is missing", t.Name(), col.Name))
			continue
		}
		// Identity and composite-PK columns are NOT NULL through the key itself.
		if col.NotNull && !col.Identity && got.pkIndex == 0 && !got.notNull {
			result.ColumnFindings = append(result.ColumnFindings,
				fmt.Sprintf("%s: column %q should be NOT NULL", t.Name(), col.Name))
		}
	}
	for name := range installed {
		if _, ok := t.column(name); !ok {
			result.ColumnFindings = append(result.ColumnFindings,
				fmt.Sprintf("%s: unexpected column %q", t.Name(), name))
		}
	}

	// Primary key: compare column sets.
	expectedPK := t.PrimaryKeyColumns()
	for _, name := range expectedPK {
		if got, ok := installed[name]; !ok || got.pkIndex == 0 {
			result.KeyFindings = append(result.KeyFindings,
				fmt.Sprintf("%s: column %q should be part of the primary key", t.Name(), name))
		}
	}
	for name, got := range installed {
		if got.pkIndex == 0 {
			continue
		}
		found := false
		for _, expected := range expectedPK {
			if expected == name {
				found = true
				break
			}
		}
		if !found {
			result.KeyFindings = append(result.KeyFindings,
				fmt.Sprintf("%s: column %q should not be part of the primary key", t.Name(), name))
		}
	}
	return nil
}

func (m *Manager) validateForeignKeys(ctx context.Context, t *Table, result *ValidationResult) error {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA foreign_key_list("%s")`, t.Name()))
	if err != nil {
		return fmt.Errorf("failed to inspect foreign keys of %s: %w", t.Name(), err)
	}
	defer rows.Close()

	// Installed references as "from->table.to".
	installed := make(map[string]bool)
	for rows.Next() {
		var (
			id, seq                     int
			refTable, from              string
			to                          sql.NullString
			onUpdate, onDelete, matcher string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &matcher); err != nil {
			return fmt.Errorf("failed to scan foreign key info for %s: %w", t.Name(), err)
		}
		installed[fmt.Sprintf("%s->%s.%s", from, refTable, to.String)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating foreign key info for %s: %w", t.Name(), err)
	}

	for _, fk := range t.ForeignKeys() {
		for i, col := range fk.Columns {
			key := fmt.Sprintf("%s->%s.%s", col, fk.RefTable, fk.RefColumns[i])
			if !installed[key] {
				result.KeyFindings = append(result.KeyFindings,
					fmt.Sprintf("%s: missing foreign key %s references %s(%s)",
						t.Name(), col, fk.RefTable, fk.RefColumns[i]))
			}
		}
	}
	return nil
}

func (m *Manager) validateSeed(ctx context.Context, t *Table, result *ValidationResult) error {
	for _, row := range t.Seed() {
		idValue, ok := row.Get("id")
		if !ok {
			continue
		}
		id, err := bigIntType{}.Bind(idValue)
		if err != nil {
			return fmt.Errorf("seed row for %s: %w", t.Name(), err)
		}

		var count int
		query := fmt.Sprintf(`SELECT COUNT(*) FROM "%s" WHERE "id" = ?`, t.Name())
		if err := m.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			result.SeedFindings = append(result.SeedFindings,
				fmt.Sprintf("%s: missing seed row id=%d", t.Name(), id))
			continue
		}

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
			if err := m.db.QueryRowContext(ctx, query, id).Scan(&got); err != nil {
				return err
			}
			if !got.Valid || got.String != want {
				conflict := &SeedConflictError{
					Table:  t.Name(),
					ID:     id.(int64),
					Column: cell.Column,
					Want:   want,
					Got:    got.String,
				}
				result.SeedFindings = append(result.SeedFindings, conflict.Error())
			}
		}
	}
	return nil
}
