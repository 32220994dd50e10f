package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Column is a single declared column of a tabular dataset.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the ordered column list of a dataset. Order matters: the
// fallback chart picks its axes from the first two columns.
type Schema []Column

// Row maps column names to values for one record.
type Row map[string]any

// Dataset is the tabular input collaborator. The pipeline consumes only
// the declared schema and a bounded sample of rows.
type Dataset interface {
	Schema() Schema
	Sample(n int) []Row
}

// Table is an in-memory Dataset. Immutable once loaded.
type Table struct {
	columns Schema
	rows    []Row
}

func NewTable(columns Schema, rows []Row) *Table {
	return &Table{columns: columns, rows: rows}
}

func (t *Table) Schema() Schema {
	out := make(Schema, len(t.columns))
	copy(out, t.columns)
	return out
}

// Sample returns the first n rows. n larger than the table returns all rows.
func (t *Table) Sample(n int) []Row {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([]Row, n)
	copy(out, t.rows[:n])
	return out
}

func (t *Table) RowCount() int {
	return len(t.rows)
}

type tableFile struct {
	Columns Schema `json:"columns"`
	Rows    []Row  `json:"rows"`
}

// LoadTable reads a table description from a JSON file of the form
// {"columns": [{"name": ..., "type": ...}], "rows": [{...}]}.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}
	var parsed tableFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse table file: %w", err)
	}
	if len(parsed.Columns) == 0 {
		return nil, fmt.Errorf("table file %s declares no columns", path)
	}
	for i, col := range parsed.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("table file %s: column %d has no name", path, i)
		}
	}
	return NewTable(parsed.Columns, parsed.Rows), nil
}
