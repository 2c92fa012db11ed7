package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/wortschatz/internal/apperr"
)

// writeWorkbook creates a workbook with one sheet holding the given rows.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadRows_Workbook(t *testing.T) {
	path := writeWorkbook(t, "Sheet2", [][]any{
		{"full_de", "base_de", "base_ru", "plural_de"},
		{"das Haus", "Haus", "", "Häuser"},
		{nil, nil, nil, nil},
		{"der Baum", "Baum", "дерево"},
		{"", "", "", ""},
		{"die Zahl", "Zahl", 42, nil},
	})

	rows, err := ReadRows(path, "Sheet2")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{"full_de": "das Haus", "base_de": "Haus", "base_ru": "", "plural_de": "Häuser"}, rows[0])
	assert.Equal(t, Row{"full_de": "der Baum", "base_de": "Baum", "base_ru": "дерево", "plural_de": ""}, rows[1])
	assert.Equal(t, "42", rows[2]["base_ru"])

	for _, row := range rows {
		assert.Len(t, row, 4, "every header must be present")
	}
}

func TestReadRows_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet2", [][]any{{"base_de"}, {"Haus"}})

	_, err := ReadRows(path, "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "Sheet2")
}

func TestReadRows_HeaderOnly(t *testing.T) {
	path := writeWorkbook(t, "Words", [][]any{{"base_de", "base_ru"}})

	rows, err := ReadRows(path, "Words")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRows_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "\ufeffbase_de,base_ru,,notes\nHaus,дом,ignored,\n,,,\nBaum\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := ReadRows(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{"base_de": "Haus", "base_ru": "дом", "notes": ""}, rows[0])
	assert.Equal(t, Row{"base_de": "Baum", "base_ru": "", "notes": ""}, rows[1])
}

func TestReadRows_Unsupported(t *testing.T) {
	_, err := ReadRows("words.ods", "Sheet1")
	assert.Error(t, err)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "missing.xlsx"), "Sheet1")
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	path := writeWorkbook(t, "Vokabeln", [][]any{{"base_de"}})

	names, err := SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Vokabeln"}, names)
}

func TestRowGet(t *testing.T) {
	row := Row{"base_de": "  Haus "}
	assert.Equal(t, "Haus", row.Get("base_de"))
	assert.Equal(t, "", row.Get("missing"))
}
