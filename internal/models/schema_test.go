package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	content := `{
  "columns": [
    {"name": "country", "type": "string"},
    {"name": "population", "type": "number"}
  ],
  "rows": [
    {"country": "France", "population": 68000000},
    {"country": "Japan", "population": 124000000}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	schema := table.Schema()
	require.Len(t, schema, 2)
	assert.Equal(t, "country", schema[0].Name)
	assert.Equal(t, "number", schema[1].Type)
	assert.Equal(t, 2, table.RowCount())
}

func TestLoadTableRejectsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"columns": [], "rows": []}`), 0644))

	_, err := LoadTable(path)
	assert.Error(t, err)
}

func TestLoadTableRejectsUnnamedColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"columns": [{"name": " ", "type": "string"}]}`), 0644))

	_, err := LoadTable(path)
	assert.Error(t, err)
}

func TestTableSampleBounds(t *testing.T) {
	table := NewTable(
		Schema{{Name: "n", Type: "number"}},
		[]Row{{"n": 1}, {"n": 2}, {"n": 3}},
	)

	assert.Len(t, table.Sample(2), 2)
	assert.Len(t, table.Sample(10), 3)
	assert.Len(t, table.Sample(-1), 0)
}

func TestGenerationRequestDescription(t *testing.T) {
	assert.Equal(t, "initial visualization", GenerationRequest{}.Description())
	assert.Equal(t, "make it blue", GenerationRequest{Instruction: "make it blue\nand bigger"}.Description())
	assert.Equal(t, "repair: unbalanced braces", GenerationRequest{
		Instruction: "make it blue",
		RepairNotes: []string{"unbalanced braces\ndetail"},
	}.Description())
}
