package index

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/pipeline"
)

// Index persists the symbols of frozen declaration units so tooling (and
// qualified cross-unit lookups) can query them without reprocessing the
// unit. The dependency-ordering precondition of cross-unit references is
// the caller's: a unit must be written only after it froze.
type Index struct {
	db *sql.DB
}

// SymbolRow is one indexed binding.
type SymbolRow struct {
	UnitID string
	File   string
	Name   string
	Kind   string
	Line   int
	Column int
}

const schema = `
CREATE TABLE IF NOT EXISTS symbols (
	unit_id TEXT NOT NULL,
	file    TEXT NOT NULL,
	name    TEXT NOT NULL,
	kind    TEXT NOT NULL,
	line    INTEGER NOT NULL,
	col     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS symbols_by_name ON symbols(name);
CREATE INDEX IF NOT EXISTS symbols_by_unit ON symbols(unit_id);
`

// Open opens (creating if necessary) a symbol index database.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open symbol index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create symbol index schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// WriteUnit replaces the indexed symbols of ctx's unit with the current
// contents of its root namespace. Qualified names of closed child modules
// are already present in the root table, so one pass covers the whole unit.
func (ix *Index) WriteUnit(ctx *pipeline.UnitContext) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("index unit %s: %w", ctx.UnitID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbols WHERE unit_id = ?`, ctx.UnitID); err != nil {
		return fmt.Errorf("index unit %s: %w", ctx.UnitID, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO symbols (unit_id, file, name, kind, line, col) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index unit %s: %w", ctx.UnitID, err)
	}
	defer stmt.Close()

	for _, b := range ctx.Namespace.All() {
		if b.Kind == namespace.NamespaceBinding {
			continue
		}
		if _, err := stmt.Exec(ctx.UnitID, ctx.File, b.Name, b.Kind.String(), b.Token.Line, b.Token.Column); err != nil {
			return fmt.Errorf("index unit %s: %w", ctx.UnitID, err)
		}
	}
	return tx.Commit()
}

// Lookup returns all indexed symbols with the given (possibly qualified)
// name, across units.
func (ix *Index) Lookup(name string) ([]SymbolRow, error) {
	rows, err := ix.db.Query(`SELECT unit_id, file, name, kind, line, col FROM symbols WHERE name = ? ORDER BY unit_id`, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// UnitSymbols returns all symbols of one unit, sorted by name.
func (ix *Index) UnitSymbols(unitID string) ([]SymbolRow, error) {
	rows, err := ix.db.Query(`SELECT unit_id, file, name, kind, line, col FROM symbols WHERE unit_id = ? ORDER BY name`, unitID)
	if err != nil {
		return nil, fmt.Errorf("unit symbols %q: %w", unitID, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]SymbolRow, error) {
	var out []SymbolRow
	for rows.Next() {
		var r SymbolRow
		if err := rows.Scan(&r.UnitID, &r.File, &r.Name, &r.Kind, &r.Line, &r.Column); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
