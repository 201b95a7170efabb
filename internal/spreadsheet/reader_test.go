package spreadsheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "renewals.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Policy No", "Surname", "New Net Premium"},
		{"MP/2025/1", "Ramsahye", "12,500.50"},
		{"MP/2025/2", "Lachaux"},
	})

	rows, err := NewReader(zap.NewNop()).Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "MP/2025/1", rows[0].Get("Policy No"))
	assert.Equal(t, "12,500.50", rows[0].Get("New Net Premium"))
	// Short row: missing trailing cells default to empty.
	assert.Empty(t, rows[1].Get("New Net Premium"))
}

func TestLoadRejectsEmptyWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Policy No", "Surname"},
	})

	_, err := NewReader(zap.NewNop()).Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewReader(zap.NewNop()).Load(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Policy No"},
		{"MP/2025/1"},
		{"MP/2025/2"},
		{"MP/2025/3"},
	})

	n, err := NewReader(zap.NewNop()).Count(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
