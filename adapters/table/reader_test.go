package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, "pre_test_scores.csv",
		"student_id,total_score,group\nS01, 3.5 ,control\nS02,5.0,experimental\n")

	tbl, err := NewReader(path).Read()
	require.NoError(t, err)

	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, []string{"student_id", "total_score", "group"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	// cells are trimmed on read
	assert.Equal(t, "3.5", tbl.Rows[0]["total_score"])
	assert.Equal(t, "experimental", tbl.Rows[1]["group"])
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "empty.csv", "student_id,total_score\n")
	_, err := NewReader(path).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least a header row and one data row")
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.csv")).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post_test.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"student_id", "total_score"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"S01", 18.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"S02", 22}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := NewReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"student_id", "total_score"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "18.5", tbl.Rows[0]["total_score"])
	assert.Equal(t, "S02", tbl.Rows[1]["student_id"])
}

func TestTableColumnHelpers(t *testing.T) {
	tbl := &Table{
		Headers: []string{"student_id", "total_score"},
		Rows: []Row{
			{"student_id": "S01", "total_score": "4.5"},
			{"student_id": "S02", "total_score": "6.0"},
		},
	}

	assert.True(t, tbl.HasColumn("total_score"))
	assert.False(t, tbl.HasColumn("group"))
	assert.Equal(t, []string{"4.5", "6.0"}, tbl.Column("total_score"))
	assert.Equal(t, []string{"", ""}, tbl.Column("missing"))
}

func TestRenameColumns(t *testing.T) {
	tbl := &Table{
		Headers: []string{"istudent_id", "total_score"},
		Rows: []Row{
			{"istudent_id": "S01", "total_score": "4.5"},
		},
	}

	tbl.RenameColumns(map[string]string{"istudent_id": "student_id"})

	assert.Equal(t, []string{"student_id", "total_score"}, tbl.Headers)
	assert.Equal(t, "S01", tbl.Rows[0]["student_id"])
	_, stale := tbl.Rows[0]["istudent_id"]
	assert.False(t, stale, "old key should be gone after rename")
}
