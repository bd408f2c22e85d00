package reshape

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/capview/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func sampleSheets() map[string]*types.Sheet {
	return map[string]*types.Sheet{
		"cap_activity": activitySheet(
			[]string{"A", "X", "contribution", "Q1", "100"},
			[]string{"A", "X", "redemption", "Q1", "-40"},
			[]string{"B", "Y", "contribution", "Q2", "250"},
		),
		"partner_capital": partnerSheet(
			[]string{"A", "X", "", "G2", "2024-03-15", ""},
			[]string{"A", "X", "G1", "G2", "2024-03-15", "12.5"},
		),
	}
}

func TestTransformSheetPresence(t *testing.T) {
	all := sampleSheets()

	tests := []struct {
		name     string
		sheets   map[string]*types.Sheet
		expected []string
	}{
		{"All sheets", all, []string{types.Contributions, types.Redemptions, types.PartnerCapital}},
		{"Activity only", map[string]*types.Sheet{"cap_activity": all["cap_activity"]}, []string{types.Contributions, types.Redemptions}},
		{"Partner only", map[string]*types.Sheet{"partner_capital": all["partner_capital"]}, []string{types.PartnerCapital}},
		{"Unrelated sheets", map[string]*types.Sheet{"Sheet1": {Name: "Sheet1"}}, nil},
		{"Empty", map[string]*types.Sheet{}, nil},
		{"Nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Transform(tt.sheets)
			if result == nil {
				t.Fatal("Transform returned nil result")
			}
			if diff := cmp.Diff(tt.expected, result.Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
			for name, table := range result {
				if table.Name != name {
					t.Errorf("table stored under %q is named %q", name, table.Name)
				}
			}
		})
	}
}

func TestTransformIsolatesFailures(t *testing.T) {
	sheets := sampleSheets()
	sheets["partner_capital"] = &types.Sheet{
		Name:    "partner_capital",
		Headers: []string{"fund_name", "investor_name", "break_period"},
		Rows:    [][]string{{"A", "X", "2024-03-15"}},
	}

	result := Transform(sheets)
	if diff := cmp.Diff([]string{types.Contributions, types.Redemptions}, result.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	sheets = sampleSheets()
	sheets["cap_activity"].Rows = append(sheets["cap_activity"].Rows, []string{"A", "X", "contribution", "Q1", "n/a"})

	result = Transform(sheets)
	if diff := cmp.Diff([]string{types.PartnerCapital}, result.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	sheets := sampleSheets()

	first := Transform(sheets)
	second := Transform(sheets)

	if diff := cmp.Diff(first, second, decimalEqual); diff != "" {
		t.Errorf("second Transform differs (-first +second):\n%s", diff)
	}
	if len(first) != 3 {
		t.Errorf("Expected 3 tables, got %d", len(first))
	}
}

func TestTransformWithSheetNames(t *testing.T) {
	sheets := map[string]*types.Sheet{
		"Activity": activitySheet([]string{"A", "X", "contribution", "Q1", "1"}),
		"Partners": partnerSheet([]string{"A", "X", "", "", "2024-01-31", "1"}),
	}

	if got := Transform(sheets); len(got) != 0 {
		t.Errorf("default names should not match, got %v", got.Names())
	}

	got := Transform(sheets, WithSheetNames("Activity", "Partners"))
	if len(got) != 3 {
		t.Errorf("Expected 3 tables with custom names, got %v", got.Names())
	}

	got = Transform(map[string]*types.Sheet{"cap_activity": sheets["Activity"]}, WithSheetNames("", "Partners"))
	if diff := cmp.Diff([]string{types.Contributions, types.Redemptions}, got.Names()); diff != "" {
		t.Errorf("empty override should keep default (-want +got):\n%s", diff)
	}
}

func TestRunIsolatedRecoversPanic(t *testing.T) {
	d := derivation{
		name: "Broken",
		derive: func(*types.Sheet) (*types.SummaryTable, error) {
			var rows []types.Row
			_ = rows[3]
			return nil, nil
		},
	}

	table, err := runIsolated(d, &types.Sheet{})
	if err == nil {
		t.Fatal("expected error from panicking derivation")
	}
	if table != nil {
		t.Errorf("expected nil table, got %v", table)
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("error %q does not name the derivation", err)
	}
}

func TestProcessFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "funds.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "cap_activity"); err != nil {
		t.Fatal(err)
	}
	activity := [][]interface{}{
		{"fund_name", "investor_name", "classification", "break_period", "amount"},
		{"A", "X", "contribution", "Q1", 100},
		{"A", "X", "redemption", "Q1", -40},
	}
	for i, row := range activity {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("cap_activity", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ProcessFile(path)
	if diff := cmp.Diff([]string{types.Contributions, types.Redemptions}, result.Names()); diff != "" {
		t.Fatalf("Names() mismatch (-want +got):\n%s", diff)
	}
	assertCell(t, result[types.Contributions], []string{"A", "X", "contribution"}, "Q1", "100")
	assertCell(t, result[types.Redemptions], []string{"A", "X", "redemption"}, "Q1", "-40")
}

func TestProcessFileFormattedCells(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "formatted.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "cap_activity"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("partner_capital"); err != nil {
		t.Fatal(err)
	}
	sheets := map[string][][]interface{}{
		"cap_activity": {
			{"fund_name", "investor_name", "classification", "break_period", "amount"},
			{"A", "X", "contribution", 45366, 1234.56},
			{"A", "X", "contribution", 45366, 0.4},
		},
		"partner_capital": {
			{"fund_name", "investor_name", "sub_group_1", "sub_group_2", "break_period", "amount"},
			{"A", "X", "G1", "G2", 45366, 10.25},
			{"A", "X", "G1", "G2", 45366, 0.25},
			{"A", "X", "G1", "G2", "2024-03-15", 1},
		},
	}
	for name, rows := range sheets {
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	style := func(s *excelize.Style) int {
		id, err := f.NewStyle(s)
		if err != nil {
			t.Fatal(err)
		}
		return id
	}
	thousands := style(&excelize.Style{NumFmt: 3})
	shortDate := style(&excelize.Style{NumFmt: 14})
	longFmt := "dd-mmm-yyyy"
	longDate := style(&excelize.Style{CustomNumFmt: &longFmt})
	for _, s := range []struct {
		sheet, from, to string
		id              int
	}{
		{"cap_activity", "E2", "E3", thousands},
		{"cap_activity", "D2", "D2", shortDate},
		{"cap_activity", "D3", "D3", longDate},
		{"partner_capital", "F2", "F4", thousands},
		{"partner_capital", "E2", "E2", shortDate},
		{"partner_capital", "E3", "E3", longDate},
	} {
		if err := f.SetCellStyle(s.sheet, s.from, s.to, s.id); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ProcessFile(path)
	if len(result) != 3 {
		t.Fatalf("Expected 3 tables, got %v", result.Names())
	}

	contrib := result[types.Contributions]
	if diff := cmp.Diff([]string{"2024-03-15"}, contrib.Periods); diff != "" {
		t.Errorf("Contributions periods mismatch (-want +got):\n%s", diff)
	}
	assertCell(t, contrib, []string{"A", "X", "contribution"}, "2024-03-15", "1234.96")

	partner := result[types.PartnerCapital]
	if diff := cmp.Diff([]string{"03/15/2024"}, partner.Periods); diff != "" {
		t.Errorf("Partner Capital periods mismatch (-want +got):\n%s", diff)
	}
	assertCell(t, partner, []string{"A", "X", "G1", "G2"}, "03/15/2024", "11.5")
}

func TestProcessFileUnreadable(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"Missing file", filepath.Join(tmpDir, "missing.xlsx")},
		{"Unsupported extension", filepath.Join(tmpDir, "data.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ProcessFile(tt.path)
			if result == nil || len(result) != 0 {
				t.Errorf("ProcessFile(%q) = %v; want empty result", tt.path, result)
			}
		})
	}
}
