package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/capview/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 12.0
	maxColWidth = 40.0
)

// OutputPath derives the export file name for an input workbook.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "_summary.xlsx"
}

// Export writes one sheet per summary table, in display order.
func Export(result types.Result, outputFile string) error {
	tables := result.Tables()
	if len(tables) == 0 {
		return ErrEmptyResult
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F8F9FA"}},
	})
	if err != nil {
		return err
	}

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return err
		}

		if err := writeTable(f, table, headerStyle); err != nil {
			return fmt.Errorf("writing %s: %w", table.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("saving %s: %w", outputFile, err)
	}
	return nil
}

func writeTable(f *excelize.File, table *types.SummaryTable, headerStyle int) error {
	headers := table.Headers()
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &headerRow); err != nil {
		return err
	}
	if err := f.SetRowStyle(table.Name, 1, 1, headerStyle); err != nil {
		return err
	}

	for r, row := range table.Rows {
		values := make([]interface{}, 0, len(headers))
		for _, k := range row.Key {
			values = append(values, k)
		}
		for _, v := range row.Values {
			values = append(values, v.InexactFloat64())
		}

		cellName, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cellName, &values); err != nil {
			return err
		}
	}

	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := min(max(float64(len(h))+2, minColWidth), maxColWidth)
		if err := f.SetColWidth(table.Name, col, col, width); err != nil {
			return err
		}
	}

	return nil
}
