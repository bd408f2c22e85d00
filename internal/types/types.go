package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Output table names, in the order tabs are shown.
const (
	Contributions  = "Contributions"
	Redemptions    = "Redemptions"
	PartnerCapital = "Partner Capital"
)

// TabOrder lists every output table name in display order.
var TabOrder = []string{Contributions, Redemptions, PartnerCapital}

// Sheet is one named, row-oriented table read from a workbook.
// A blank cell is a missing value.
type Sheet struct {
	Name      string
	Headers   []string
	Rows      [][]string
	HeaderRow int
}

// Column returns the index of the named header, or -1.
func (s *Sheet) Column(name string) int {
	for i, h := range s.Headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

type Workbook struct {
	Path   string
	Sheets map[string]*Sheet
}

// Row is one grouping key and its per-period sums.
type Row struct {
	Key    []string
	Values []decimal.Decimal
}

// SummaryTable is a pivoted table: one row per grouping key and one
// column per distinct period. Values[i] of every row belongs to Periods[i].
type SummaryTable struct {
	Name       string
	KeyColumns []string
	Periods    []string
	Rows       []Row
}

func (t *SummaryTable) Len() int {
	return len(t.Rows)
}

// Headers returns the key columns followed by the period columns.
func (t *SummaryTable) Headers() []string {
	headers := make([]string, 0, len(t.KeyColumns)+len(t.Periods))
	headers = append(headers, t.KeyColumns...)
	return append(headers, t.Periods...)
}

// Records flattens the table into a string grid matching Headers.
func (t *SummaryTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, 0, len(row.Key)+len(row.Values))
		record = append(record, row.Key...)
		for _, v := range row.Values {
			record = append(record, v.String())
		}
		records = append(records, record)
	}
	return records
}

// Cell returns the sum stored for key and period. The second return is
// false when either the key or the period is not part of the table.
func (t *SummaryTable) Cell(key []string, period string) (decimal.Decimal, bool) {
	col := -1
	for i, p := range t.Periods {
		if p == period {
			col = i
			break
		}
	}
	if col == -1 {
		return decimal.Zero, false
	}

	for _, row := range t.Rows {
		if equalKeys(row.Key, key) {
			return row.Values[col], true
		}
	}
	return decimal.Zero, false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Result maps output table names to the tables derived from one workbook.
type Result map[string]*SummaryTable

// Names returns the names present in the result in display order.
func (r Result) Names() []string {
	var names []string
	for _, name := range TabOrder {
		if _, ok := r[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Tables returns the tables present in the result in display order.
func (r Result) Tables() []*SummaryTable {
	var tables []*SummaryTable
	for _, name := range r.Names() {
		tables = append(tables, r[name])
	}
	return tables
}
