package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/iwvelando/matchday-dashboard/pkg/mathutil"
	"github.com/xuri/excelize/v2"
)

// Load reads the sheet named by src from the workbook at src.Path.
func Load(src Source) (*Table, error) {
	file, err := os.Open(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, src.errorf(ErrResourceNotFound, "file does not exist")
		}
		return nil, src.errorf(ErrResourceNotFound, "%v", err)
	}
	defer func() { _ = file.Close() }()

	return Read(file, src)
}

// Read parses a workbook from r. src.Path only serves to pick the format by
// extension and to name the resource in errors.
func Read(r io.Reader, src Source) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, src.errorf(ErrResourceNotFound, "read failed: %v", err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".xls":
		rows, err = readXLS(data, src)
	default:
		rows, err = readXLSX(data, src)
	}
	if err != nil {
		return nil, err
	}

	return parseRows(rows, src)
}

func readXLSX(data []byte, src Source) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, src.errorf(ErrMalformedResource, "not a readable workbook: %v", err)
	}
	defer func() { _ = file.Close() }()

	found := false
	for _, name := range file.GetSheetList() {
		if name == src.Sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, src.errorf(ErrResourceNotFound, "sheet does not exist")
	}

	rows, err := file.GetRows(src.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, src.errorf(ErrMalformedResource, "%v", err)
	}
	return rows, nil
}

func readXLS(data []byte, src Source) (rows [][]string, err error) {
	// The legacy parser panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, src.errorf(ErrMalformedResource, "not a readable workbook: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, src.errorf(ErrMalformedResource, "not a readable workbook: %v", err)
	}

	var sheet *xls.WorkSheet
	for i := 0; i < workbook.NumSheets(); i++ {
		if ws := workbook.GetSheet(i); ws != nil && ws.Name == src.Sheet {
			sheet = ws
			break
		}
	}
	if sheet == nil {
		return nil, src.errorf(ErrResourceNotFound, "sheet does not exist")
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		// Rows built only from cell records carry no ROW bounds.
		width := row.LastCol()
		if width <= 0 {
			width = xlsMaxColumns
		}
		cells := make([]string, 0, width)
		for c := 0; c < width; c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// xlsMaxColumns is the BIFF8 column limit.
const xlsMaxColumns = 256

// xlsRow returns nil for rows the sheet has no records for; the parser
// dereferences the missing row instead of reporting it.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func parseRows(raw [][]string, src Source) (*Table, error) {
	rows := make([][]string, 0, len(raw))
	lines := make([]int, 0, len(raw))
	for i, row := range raw {
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
		lines = append(lines, i+1)
	}
	if len(rows) == 0 {
		return nil, src.errorf(ErrMalformedResource, "sheet is empty")
	}

	header := trimTrailingBlank(rows[0])
	key := src.keyColumn()
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), key) {
		first := ""
		if len(header) > 0 {
			first = strings.TrimSpace(header[0])
		}
		return nil, src.errorf(ErrMalformedResource, "key column %s is absent (first column is %q)", key, first)
	}

	items := make([]string, 0, len(header)-1)
	for _, name := range header[1:] {
		items = append(items, strings.TrimSpace(name))
	}

	parsed := make([]Row, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := lines[n+1]
		if extra := trimTrailingBlank(row); len(extra) > len(header) {
			return nil, src.errorf(ErrMalformedResource, "row %d has values beyond the last header", line)
		}

		keyCell := strings.TrimSpace(cellAt(row, 0))
		number, err := parseNumber(keyCell)
		if err != nil {
			return nil, src.errorf(ErrSchemaMismatch, "row %d: match number %q is not numeric", line, keyCell)
		}
		if !mathutil.IsInteger(number) {
			return nil, src.errorf(ErrSchemaMismatch, "row %d: match number %q is not an integer", line, keyCell)
		}
		if number < 1 || number > math.MaxInt32 {
			return nil, src.errorf(ErrSchemaMismatch, "row %d: match number %q is out of range", line, keyCell)
		}

		values := make([]float64, len(items))
		for j, item := range items {
			cell := strings.TrimSpace(cellAt(row, j+1))
			if cell == "" {
				return nil, src.errorf(ErrSchemaMismatch, "row %d: column %s is empty", line, item)
			}
			v, err := parseNumber(cell)
			if err != nil {
				return nil, src.errorf(ErrSchemaMismatch, "row %d: column %s value %q is not numeric", line, item, cell)
			}
			values[j] = v
		}
		parsed = append(parsed, Row{Match: int(number), Values: values})
	}

	return NewTable(src, items, parsed)
}

func parseNumber(cell string) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", cell)
	}
	return v, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimTrailingBlank(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}
