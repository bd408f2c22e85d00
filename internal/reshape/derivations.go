package reshape

import (
	"fmt"
	"slices"

	"github.com/nconklindev/capview/internal/types"
)

// Source column names.
const (
	ColFundName       = "fund_name"
	ColInvestorName   = "investor_name"
	ColClassification = "classification"
	ColSubGroup1      = "sub_group_1"
	ColSubGroup2      = "sub_group_2"
	ColBreakPeriod    = "break_period"
	ColAmount         = "amount"
)

// Classification values used by the activity filters.
const (
	ClassContribution = "contribution"
	ClassRedemption   = "redemption"
)

var (
	activityKeys = []string{ColFundName, ColInvestorName, ColClassification}
	partnerKeys  = []string{ColFundName, ColInvestorName, ColSubGroup1, ColSubGroup2}
	measureCols  = []string{ColBreakPeriod, ColAmount}
)

// classificationCol is the position of classification in activityKeys.
const classificationCol = 2

// Contributions pivots the activity sheet and drops redemption rows.
// The filter runs after the pivot, so any classification other than
// "redemption" is kept, including values that also appear in Redemptions.
func Contributions(sheet *types.Sheet) (*types.SummaryTable, error) {
	table, err := pivotActivity(types.Contributions, sheet)
	if err != nil {
		return nil, err
	}
	return filterRows(table, classificationCol, ClassRedemption), nil
}

// Redemptions pivots the activity sheet and drops contribution rows.
func Redemptions(sheet *types.Sheet) (*types.SummaryTable, error) {
	table, err := pivotActivity(types.Redemptions, sheet)
	if err != nil {
		return nil, err
	}
	return filterRows(table, classificationCol, ClassContribution), nil
}

func pivotActivity(name string, sheet *types.Sheet) (*types.SummaryTable, error) {
	cols, err := columnIndexes(sheet, slices.Concat(activityKeys, measureCols))
	if err != nil {
		return nil, err
	}
	periodCol, amountCol := cols[len(activityKeys)], cols[len(activityKeys)+1]

	records := make([]Record, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		key := make([]string, len(activityKeys))
		complete := true
		for k := range activityKeys {
			key[k] = cell(row, cols[k])
			if isMissing(key[k]) {
				complete = false
			}
		}
		period := cell(row, periodCol)
		// Rows with a blank key or period never reach the pivot.
		if !complete || isMissing(period) {
			continue
		}

		amount, err := parseAmount(cell(row, amountCol))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet.Name, rowNumber(sheet, i), err)
		}
		records = append(records, Record{Key: key, Period: period, Amount: amount})
	}

	return Pivot(name, activityKeys, records), nil
}

// PartnerCapital pivots the partner allocation sheet. Blank names and
// sub-groups group under the empty string, blank amounts count as zero and
// periods are normalized to MM/DD/YYYY.
func PartnerCapital(sheet *types.Sheet) (*types.SummaryTable, error) {
	cols, err := columnIndexes(sheet, slices.Concat(partnerKeys, measureCols))
	if err != nil {
		return nil, err
	}
	periodCol, amountCol := cols[len(partnerKeys)], cols[len(partnerKeys)+1]

	records := make([]Record, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		raw := cell(row, periodCol)
		if isMissing(raw) {
			continue
		}
		period, err := normalizePeriod(raw)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet.Name, rowNumber(sheet, i), err)
		}

		amount, err := parseAmount(cell(row, amountCol))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet.Name, rowNumber(sheet, i), err)
		}

		key := make([]string, len(partnerKeys))
		for k := range partnerKeys {
			if v := cell(row, cols[k]); !isMissing(v) {
				key[k] = v
			}
		}
		records = append(records, Record{Key: key, Period: period, Amount: amount})
	}

	return Pivot(types.PartnerCapital, partnerKeys, records), nil
}

func columnIndexes(sheet *types.Sheet, names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = sheet.Column(name)
		if idx[i] == -1 {
			return nil, fmt.Errorf("%w %q in sheet %q", ErrMissingColumn, name, sheet.Name)
		}
	}
	return idx, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// rowNumber converts a data row index into the 1-based spreadsheet row.
func rowNumber(sheet *types.Sheet, i int) int {
	return sheet.HeaderRow + i + 2
}
