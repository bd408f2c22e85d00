package workbook

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/capview/internal/types"

	"github.com/xuri/excelize/v2"
)

// HeaderSearchLimit bounds how many leading rows are scanned for a header.
const HeaderSearchLimit = 20

// Date-formatted cells are rendered with these layouts, whatever number
// format the workbook shows them in.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEmptyResult     = errors.New("no data could be processed")
)

// AllowedTypes lists the extensions Load accepts.
var AllowedTypes = []string{".xlsx", ".xlsm"}

// Load reads every sheet of the workbook at path. Cells are read as stored
// rather than as displayed, so amounts keep their full precision and
// date-formatted numbers come back as DateLayout text.
func Load(path string) (*types.Workbook, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	wb := &types.Workbook{
		Path:   path,
		Sheets: make(map[string]*types.Sheet),
	}

	dates := newDateCells(f)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		if err := dates.render(name, rows); err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		wb.Sheets[name] = newSheet(name, rows)
	}

	return wb, nil
}

// dateCells rewrites date-formatted serial numbers as text. Style lookups
// are cached per style ID.
type dateCells struct {
	f        *excelize.File
	date1904 bool
	isDate   map[int]bool
}

func newDateCells(f *excelize.File) *dateCells {
	d := &dateCells{f: f, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateCells) render(sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, value := range row {
			serial, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			date, err := d.dateStyled(sheet, cell)
			if err != nil {
				return err
			}
			if !date {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, d.date1904)
			if err != nil {
				continue
			}
			row[c] = formatDate(t)
		}
	}
	return nil
}

func (d *dateCells) dateStyled(sheet, cell string) (bool, error) {
	id, err := d.f.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	if date, ok := d.isDate[id]; ok {
		return date, nil
	}
	style, err := d.f.GetStyle(id)
	if err != nil {
		return false, err
	}
	d.isDate[id] = isDateFormat(style)
	return d.isDate[id], nil
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// isDateFormat reports whether a style shows a calendar date. Time-only
// formats (h:mm, mm:ss) are not dates.
func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return customDateFormat(*style.CustomNumFmt)
	}
	switch id := style.NumFmt; {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// customDateFormat looks for day or year tokens outside quoted literals,
// escapes and bracketed sections such as [Red] or [$-409].
func customDateFormat(format string) bool {
	var quoted, bracket, escaped bool
	for _, r := range strings.ToLower(format) {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			bracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = true
		case r == '[':
			bracket = true
		case r == 'd', r == 'y':
			return true
		}
	}
	return false
}

// Supported reports whether path has an extension Load accepts.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range AllowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

// newSheet takes the first non-blank row as the header. Data rows are
// padded to the header width; trailing blank rows are dropped.
func newSheet(name string, rows [][]string) *types.Sheet {
	sheet := &types.Sheet{Name: name, HeaderRow: -1}

	headerIdx := findHeaderRow(rows)
	if headerIdx == -1 {
		return sheet
	}

	sheet.HeaderRow = headerIdx
	sheet.Headers = rows[headerIdx]

	data := rows[headerIdx+1:]
	for len(data) > 0 && blankRow(data[len(data)-1]) {
		data = data[:len(data)-1]
	}

	width := len(sheet.Headers)
	sheet.Rows = make([][]string, 0, len(data))
	for _, row := range data {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

// findHeaderRow locates the first row with any non-blank cell
func findHeaderRow(rows [][]string) int {
	searchLimit := min(len(rows), HeaderSearchLimit)
	for i := 0; i < searchLimit; i++ {
		if !blankRow(rows[i]) {
			return i
		}
	}
	return -1
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
