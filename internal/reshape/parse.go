package reshape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// PeriodLayout is the label format of partner capital period columns.
const PeriodLayout = "01/02/2006"

// maxExcelSerial is 9999-12-31, the last date Excel can represent.
const maxExcelSerial = 2958465

// dateLayouts covers ISO dates, US slash dates and the short formats
// excelize renders for date-formatted cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/06 15:04",
	"1-2-06",
	"1-2-2006",
	"2006/1/2",
	"2-Jan-06",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// isMissing reports whether a cell holds no value.
func isMissing(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseAmount reads a numeric cell. Blank cells are zero. Thousands
// separators, a leading currency symbol and accounting parentheses are
// accepted.
func parseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	if strings.HasPrefix(v, "-") {
		negative = !negative
		v = strings.TrimSpace(v[1:])
	}
	v = strings.TrimLeft(v, "$€£¥")
	v = strings.ReplaceAll(v, ",", "")

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// parseDate reads a date cell, either as text in one of dateLayouts or as
// an Excel serial number. A bare four digit number is a year.
func parseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	if isYear(v) {
		return time.Parse("2006", v)
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial <= 0 || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("%w: serial %q out of range", ErrInvalidDate, s)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return t, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func isYear(v string) bool {
	if len(v) != 4 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return v[0] != '0'
}

// normalizePeriod renders a date cell as MM/DD/YYYY.
func normalizePeriod(s string) (string, error) {
	t, err := parseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(PeriodLayout), nil
}
