package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"paprika/pkg/calendar"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	sheet := x.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, x.SetSheetRow(sheet, cell, &row))
	}
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func str(d interface{ String() string }) string { return d.String() }

func TestReadWorkbook(t *testing.T) {
	t.Parallel()
	buf := workbook(t, [][]any{
		{"Stage", "Start Date", "End Date", "Notes"},
		{"Pricking", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "tray A"},
		{"planting", "2024-03-25", "2024-04-10"},
		{},
		{"Harvest Start", "2024-06-01", "2024-06-30"},
	})

	edits, err := ReadWorkbook(buf)
	require.NoError(t, err)
	require.NotNil(t, edits.PrickingStart)
	assert.Equal(t, "2024-03-01", str(edits.PrickingStart))
	assert.Equal(t, "2024-03-20", str(edits.PrickingEnd))
	assert.Equal(t, "2024-03-25", str(edits.PlantingStart))
	assert.Equal(t, "2024-04-10", str(edits.PlantingEnd))
	assert.Equal(t, "2024-06-01", str(edits.HarvestStart))
	assert.Nil(t, edits.HarvestEnd, "end date of a point stage is ignored")
	assert.Equal(t, []calendar.Stage{calendar.StagePricking, calendar.StagePlanting, calendar.StageHarvestStart}, edits.Stages())
}

func TestReadCSVHeaderAliases(t *testing.T) {
	t.Parallel()
	in := "\uFEFFphase,from,to\n" +
		"PRICKING,2024-03-01,2024-03-20\n" +
		"harvest,2024-06-01,2024-08-15\n"

	edits, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", str(edits.PrickingEnd))
	assert.Equal(t, "2024-06-01", str(edits.HarvestStart))
	assert.Equal(t, "2024-08-15", str(edits.HarvestEnd))
	assert.Nil(t, edits.PlantingStart)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
		kind calendar.Kind
	}{
		{name: "empty", in: "", want: "empty sheet"},
		{name: "no stage column", in: "start,end\n2024-03-01,2024-03-02\n", want: "missing required columns"},
		{name: "unknown stage", in: "stage,start\nsowing,2024-03-01\n", want: "row 2"},
		{name: "duplicate", in: "stage,start,end\npricking,2024-03-01,2024-03-02\nPricking,2024-03-05,2024-03-06\n", want: "already given on row 2"},
		{name: "harvest twice", in: "stage,start\nharvest end,2024-08-01\nharvest,2024-06-01\n", want: "row 3"},
		{name: "bad date", in: "stage,start\nplanting,March 1st\n", want: "row 2", kind: calendar.InvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.kind != "" {
				assert.Equal(t, tt.kind, calendar.KindOf(err))
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "season.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("stage,start\nharvest start,2024-06-01\n"), 0o644))
	edits, err := ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", str(edits.HarvestStart))

	xlsxPath := filepath.Join(dir, "season.xlsx")
	buf := workbook(t, [][]any{{"Stage", "Start"}, {"harvest end", "2024-08-15"}})
	require.NoError(t, os.WriteFile(xlsxPath, buf.Bytes(), 0o644))
	edits, err = ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, "2024-08-15", str(edits.HarvestEnd))

	_, err = ReadFile(filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)
}

// Imported edits go straight into the bulk editor.
func TestImportFeedsBulkEdit(t *testing.T) {
	t.Parallel()
	edits, err := ReadCSV(strings.NewReader("stage,start,end\npricking,2024-03-01,2024-03-20\nplanting,2024-03-15,2024-04-01\n"))
	require.NoError(t, err)

	_, err = calendar.ApplyBulkEdit(calendar.NewRecord(1, 2024), edits)
	require.Error(t, err)
	assert.Equal(t, calendar.StageOutOfOrder, calendar.KindOf(err))
}

func TestReadWorkbookDate1904(t *testing.T) {
	t.Parallel()
	x := excelize.NewFile()
	defer x.Close()
	date1904 := true
	require.NoError(t, x.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904}))
	sheet := x.GetSheetName(0)
	require.NoError(t, x.SetSheetRow(sheet, "A1", &[]any{"Stage", "Start", "End"}))
	// 43890 and 43909 are 2024-03-01 and 2024-03-20 counted from 1904-01-01;
	// read with the 1900 system they would land in 2020.
	require.NoError(t, x.SetSheetRow(sheet, "A2", &[]any{"pricking", 43890, 43909}))
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)

	edits, err := ReadWorkbook(buf)
	require.NoError(t, err)
	require.NotNil(t, edits.PrickingStart)
	assert.Equal(t, "2024-03-01", str(edits.PrickingStart))
	assert.Equal(t, "2024-03-20", str(edits.PrickingEnd))
}
