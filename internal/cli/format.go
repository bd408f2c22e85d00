package cli

import (
	"strings"

	"github.com/nconklindev/capview/internal/types"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with thousands separators and a fixed
// number of decimals.
func FormatAmount(d decimal.Decimal, decimals int) string {
	format := "#,###."
	if decimals > 0 {
		format += strings.Repeat("#", decimals)
	}
	return humanize.FormatFloat(format, d.Round(int32(decimals)).InexactFloat64())
}

// DisplayRecords returns the table cells as display strings, in the
// column order of Headers.
func DisplayRecords(t *types.SummaryTable, decimals int) [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, 0, len(row.Key)+len(row.Values))
		record = append(record, row.Key...)
		for _, v := range row.Values {
			record = append(record, FormatAmount(v, decimals))
		}
		records = append(records, record)
	}
	return records
}
