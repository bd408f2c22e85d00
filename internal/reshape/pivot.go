package reshape

import (
	"slices"
	"sort"
	"strings"

	"github.com/nconklindev/capview/internal/types"

	"github.com/shopspring/decimal"
)

// Record is one input row reduced to its grouping key, period and amount.
type Record struct {
	Key    []string
	Period string
	Amount decimal.Decimal
}

// keySep cannot appear in a spreadsheet cell.
const keySep = "\x00"

// Pivot sums Amount per (Key, Period) and spreads periods into columns.
// Every key gets a value for every period observed in records; combinations
// with no matching record are zero. Rows are ordered lexicographically by
// key, periods by sortPeriods.
func Pivot(name string, keyColumns []string, records []Record) *types.SummaryTable {
	type group struct {
		key  []string
		sums map[string]decimal.Decimal
	}

	groups := make(map[string]*group)
	seen := make(map[string]struct{})
	var periods []string

	for _, r := range records {
		id := strings.Join(r.Key, keySep)
		g, ok := groups[id]
		if !ok {
			g = &group{key: slices.Clone(r.Key), sums: make(map[string]decimal.Decimal)}
			groups[id] = g
		}
		sum, ok := g.sums[r.Period]
		if !ok {
			sum = decimal.Zero
		}
		g.sums[r.Period] = sum.Add(r.Amount)

		if _, ok := seen[r.Period]; !ok {
			seen[r.Period] = struct{}{}
			periods = append(periods, r.Period)
		}
	}

	sortPeriods(periods)

	table := &types.SummaryTable{
		Name:       name,
		KeyColumns: slices.Clone(keyColumns),
		Periods:    periods,
		Rows:       make([]types.Row, 0, len(groups)),
	}

	for _, g := range groups {
		values := make([]decimal.Decimal, len(periods))
		for i, p := range periods {
			if sum, ok := g.sums[p]; ok {
				values[i] = sum
			} else {
				values[i] = decimal.Zero
			}
		}
		table.Rows = append(table.Rows, types.Row{Key: g.key, Values: values})
	}

	slices.SortFunc(table.Rows, func(a, b types.Row) int {
		return slices.Compare(a.Key, b.Key)
	})

	return table
}

// sortPeriods orders period labels chronologically when every label reads
// as a date, and lexicographically otherwise.
func sortPeriods(periods []string) {
	times := make(map[string]int64, len(periods))
	for _, p := range periods {
		t, err := parseDate(p)
		if err != nil {
			sort.Strings(periods)
			return
		}
		times[p] = t.UnixNano()
	}

	sort.SliceStable(periods, func(i, j int) bool {
		ti, tj := times[periods[i]], times[periods[j]]
		if ti != tj {
			return ti < tj
		}
		return periods[i] < periods[j]
	})
}

// filterRows keeps the rows whose key column col is not equal to value.
func filterRows(table *types.SummaryTable, col int, value string) *types.SummaryTable {
	kept := make([]types.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if row.Key[col] != value {
			kept = append(kept, row)
		}
	}
	table.Rows = kept
	return table
}
