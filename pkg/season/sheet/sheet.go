// Package sheet reads a season's stage dates from a workbook or CSV file,
// one stage per row, for the bulk stage editor.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"paprika/pkg/calendar"
)

// harvest is accepted as one row carrying both harvest dates.
const harvest = "harvest"

// ReadFile dispatches on the file extension: .csv is read as CSV,
// anything else as an xlsx workbook.
func ReadFile(path string) (calendar.Edits, error) {
	f, err := os.Open(path)
	if err != nil {
		return calendar.Edits{}, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(f)
	}
	return ReadWorkbook(f)
}

// ReadWorkbook reads the first sheet of an xlsx workbook.
func ReadWorkbook(r io.Reader) (calendar.Edits, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return calendar.Edits{}, fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()

	name := x.GetSheetName(0)
	if name == "" {
		return calendar.Edits{}, errors.New("workbook has no sheets")
	}
	rows, err := x.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return calendar.Edits{}, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return parseRows(rows, x.GetWorkbookProps)
}

func ReadCSV(r io.Reader) (calendar.Edits, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return calendar.Edits{}, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, nil)
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

type columns struct{ stage, start, end int }

func header(head []string) (columns, error) {
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
	cols := columns{
		stage: findAny("Stage", "phase", "step"),
		start: findAny("Start", "StartDate", "start_date", "from", "begin", "date"),
		end:   findAny("End", "EndDate", "end_date", "to", "until", "finish"),
	}
	if cols.stage == -1 || cols.start == -1 {
		return columns{}, fmt.Errorf("missing required columns, found headers %v; need at least Stage and Start", head)
	}
	return cols, nil
}

// parseRows turns the header row plus one row per stage into edits. props
// reports whether the workbook uses the 1904 date system; nil means 1900.
func parseRows(rows [][]string, props func() (excelize.WorkbookPropsOptions, error)) (calendar.Edits, error) {
	var edits calendar.Edits
	if len(rows) == 0 {
		return edits, errors.New("empty sheet")
	}
	cols, err := header(rows[0])
	if err != nil {
		return edits, err
	}
	date1904 := false
	if props != nil {
		if p, err := props(); err == nil && p.Date1904 != nil {
			date1904 = *p.Date1904
		}
	}

	seen := map[calendar.Stage]int{}
	for i, rec := range rows[1:] {
		line := i + 2
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		name := get(cols.stage)
		if name == "" {
			continue
		}

		start, err := cellDate(get(cols.start), date1904)
		if err != nil {
			return calendar.Edits{}, fmt.Errorf("row %d: %w", line, err)
		}
		end, err := cellDate(get(cols.end), date1904)
		if err != nil {
			return calendar.Edits{}, fmt.Errorf("row %d: %w", line, err)
		}

		var targets []calendar.Field
		var stages []calendar.Stage
		if norm(name) == harvest {
			stages = []calendar.Stage{calendar.StageHarvestStart, calendar.StageHarvestEnd}
			targets = []calendar.Field{calendar.FieldHarvestStart, calendar.FieldHarvestEnd}
		} else {
			st, err := calendar.ParseStage(name)
			if err != nil {
				return calendar.Edits{}, fmt.Errorf("row %d: %w", line, err)
			}
			s, e := st.Fields()
			stages = []calendar.Stage{st}
			targets = []calendar.Field{s, e}
		}
		for _, st := range stages {
			if prev, dup := seen[st]; dup {
				return calendar.Edits{}, fmt.Errorf("row %d: %s already given on row %d", line, st.Label(), prev)
			}
			seen[st] = line
		}

		if start != nil {
			edits.Set(targets[0], *start)
		}
		if end != nil && targets[1] != "" {
			edits.Set(targets[1], *end)
		}
	}
	return edits, nil
}

// cellDate reads a date cell: ISO text, or an Excel serial number when the
// cell is formatted as a date.
func cellDate(v string, date1904 bool) (*civil.Date, error) {
	if v == "" {
		return nil, nil
	}
	if d, err := calendar.ParseDate(v); err == nil {
		return &d, nil
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &calendar.ValidationError{Kind: calendar.InvalidDate, Value: v}
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return nil, &calendar.ValidationError{Kind: calendar.InvalidDate, Value: v}
	}
	d := civil.DateOf(t)
	return &d, nil
}
