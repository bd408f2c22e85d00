package reshape

import (
	"errors"
	"testing"

	"github.com/nconklindev/capview/internal/types"

	"github.com/shopspring/decimal"
)

var (
	activityHeaders = []string{"fund_name", "investor_name", "classification", "break_period", "amount"}
	partnerHeaders  = []string{"fund_name", "investor_name", "sub_group_1", "sub_group_2", "break_period", "amount"}
)

func activitySheet(rows ...[]string) *types.Sheet {
	return &types.Sheet{Name: "cap_activity", Headers: activityHeaders, Rows: rows}
}

func partnerSheet(rows ...[]string) *types.Sheet {
	return &types.Sheet{Name: "partner_capital", Headers: partnerHeaders, Rows: rows}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCell(t *testing.T, table *types.SummaryTable, key []string, period, want string) {
	t.Helper()
	got, ok := table.Cell(key, period)
	if !ok {
		t.Fatalf("%s: no cell for key %v period %q", table.Name, key, period)
	}
	if !got.Equal(dec(want)) {
		t.Errorf("%s: cell %v/%q = %s; want %s", table.Name, key, period, got, want)
	}
}

func keysOf(table *types.SummaryTable) [][]string {
	var keys [][]string
	for _, row := range table.Rows {
		keys = append(keys, row.Key)
	}
	return keys
}

func TestContributionsAndRedemptionsSplit(t *testing.T) {
	sheet := activitySheet(
		[]string{"A", "X", "contribution", "Q1", "100"},
		[]string{"A", "X", "redemption", "Q1", "-40"},
	)

	contrib, err := Contributions(sheet)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	if contrib.Len() != 1 {
		t.Fatalf("Expected 1 contribution row, got %d", contrib.Len())
	}
	assertCell(t, contrib, []string{"A", "X", "contribution"}, "Q1", "100")

	reds, err := Redemptions(sheet)
	if err != nil {
		t.Fatalf("Redemptions failed: %v", err)
	}
	if reds.Len() != 1 {
		t.Fatalf("Expected 1 redemption row, got %d", reds.Len())
	}
	assertCell(t, reds, []string{"A", "X", "redemption"}, "Q1", "-40")
}

func TestOtherClassificationAppearsInBothTables(t *testing.T) {
	sheet := activitySheet(
		[]string{"A", "X", "contribution", "Q1", "100"},
		[]string{"A", "X", "redemption", "Q1", "-40"},
		[]string{"A", "X", "transfer", "Q1", "7"},
	)

	contrib, err := Contributions(sheet)
	if err != nil {
		t.Fatal(err)
	}
	reds, err := Redemptions(sheet)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		table *types.SummaryTable
		want  [][]string
	}{
		{"Contributions", contrib, [][]string{{"A", "X", "contribution"}, {"A", "X", "transfer"}}},
		{"Redemptions", reds, [][]string{{"A", "X", "redemption"}, {"A", "X", "transfer"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keysOf(tt.table)
			if len(got) != len(tt.want) {
				t.Fatalf("keys = %v; want %v", got, tt.want)
			}
			for i := range got {
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("keys = %v; want %v", got, tt.want)
					}
				}
			}
			assertCell(t, tt.table, []string{"A", "X", "transfer"}, "Q1", "7")
		})
	}
}

func TestActivitySumsAndZeroFill(t *testing.T) {
	sheet := activitySheet(
		[]string{"A", "X", "contribution", "Q1", "100"},
		[]string{"A", "X", "contribution", "Q1", "25.5"},
		[]string{"A", "X", "contribution", "Q2", "10"},
		[]string{"B", "Y", "contribution", "Q2", "1,000"},
		[]string{"B", "Y", "redemption", "Q3", "-5"},
	)

	contrib, err := Contributions(sheet)
	if err != nil {
		t.Fatal(err)
	}

	// Q3 only occurs on a redemption row but the filter runs after the pivot,
	// so the column survives with zeros.
	wantPeriods := []string{"Q1", "Q2", "Q3"}
	if len(contrib.Periods) != len(wantPeriods) {
		t.Fatalf("Periods = %v; want %v", contrib.Periods, wantPeriods)
	}
	for i, p := range wantPeriods {
		if contrib.Periods[i] != p {
			t.Errorf("Periods = %v; want %v", contrib.Periods, wantPeriods)
		}
	}

	assertCell(t, contrib, []string{"A", "X", "contribution"}, "Q1", "125.5")
	assertCell(t, contrib, []string{"A", "X", "contribution"}, "Q2", "10")
	assertCell(t, contrib, []string{"A", "X", "contribution"}, "Q3", "0")
	assertCell(t, contrib, []string{"B", "Y", "contribution"}, "Q1", "0")
	assertCell(t, contrib, []string{"B", "Y", "contribution"}, "Q2", "1000")

	for _, row := range contrib.Rows {
		if len(row.Values) != len(contrib.Periods) {
			t.Errorf("row %v has %d values for %d periods", row.Key, len(row.Values), len(contrib.Periods))
		}
	}
}

func TestActivityDropsRowsWithBlankKeys(t *testing.T) {
	sheet := activitySheet(
		[]string{"A", "X", "contribution", "Q1", "100"},
		[]string{"", "X", "contribution", "Q1", "50"},
		[]string{"A", "X", "contribution", "", "50"},
		[]string{"A", "X", "contribution", "Q2", ""},
	)

	contrib, err := Contributions(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if contrib.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d: %v", contrib.Len(), keysOf(contrib))
	}
	assertCell(t, contrib, []string{"A", "X", "contribution"}, "Q1", "100")
	assertCell(t, contrib, []string{"A", "X", "contribution"}, "Q2", "0")
}

func TestPartnerCapitalNormalizesInput(t *testing.T) {
	sheet := partnerSheet(
		[]string{"A", "X", "", "G2", "2024-03-15", ""},
	)

	table, err := PartnerCapital(sheet)
	if err != nil {
		t.Fatalf("PartnerCapital failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", table.Len())
	}
	if len(table.Periods) != 1 || table.Periods[0] != "03/15/2024" {
		t.Errorf("Periods = %v; want [03/15/2024]", table.Periods)
	}
	assertCell(t, table, []string{"A", "X", "", "G2"}, "03/15/2024", "0")
}

func TestPartnerCapitalDateRepresentations(t *testing.T) {
	sheet := partnerSheet(
		[]string{"A", "X", "G1", "G2", "2024-03-15", "1"},
		[]string{"A", "X", "G1", "G2", "3/15/24", "2"},
		[]string{"A", "X", "G1", "G2", "45366", "4"},
		[]string{"A", "X", "G1", "G2", "2024-03-15 00:00:00", "8"},
		[]string{"A", "X", "G1", "G2", "12/31/2023", "16"},
		[]string{"", "", "", "", "01/15/2025", "32"},
		[]string{"A", "X", "G1", "G2", "", "64"},
	)

	table, err := PartnerCapital(sheet)
	if err != nil {
		t.Fatalf("PartnerCapital failed: %v", err)
	}

	wantPeriods := []string{"12/31/2023", "03/15/2024", "01/15/2025"}
	if len(table.Periods) != len(wantPeriods) {
		t.Fatalf("Periods = %v; want %v", table.Periods, wantPeriods)
	}
	for i, p := range wantPeriods {
		if table.Periods[i] != p {
			t.Errorf("Periods = %v; want %v", table.Periods, wantPeriods)
		}
	}

	assertCell(t, table, []string{"A", "X", "G1", "G2"}, "03/15/2024", "15")
	assertCell(t, table, []string{"A", "X", "G1", "G2"}, "12/31/2023", "16")
	assertCell(t, table, []string{"A", "X", "G1", "G2"}, "01/15/2025", "0")
	assertCell(t, table, []string{"", "", "", ""}, "01/15/2025", "32")

	// Blank keys sort first.
	if table.Rows[0].Key[0] != "" {
		t.Errorf("first row key = %v; want blank fund first", table.Rows[0].Key)
	}
}

func TestDerivationErrors(t *testing.T) {
	tests := []struct {
		name    string
		derive  func(*types.Sheet) (*types.SummaryTable, error)
		sheet   *types.Sheet
		wantErr error
	}{
		{
			name:    "Activity missing amount column",
			derive:  Contributions,
			sheet:   &types.Sheet{Name: "cap_activity", Headers: activityHeaders[:4], Rows: [][]string{{"A", "X", "contribution", "Q1"}}},
			wantErr: ErrMissingColumn,
		},
		{
			name:    "Partner missing sub group",
			derive:  PartnerCapital,
			sheet:   &types.Sheet{Name: "partner_capital", Headers: []string{"fund_name", "investor_name", "sub_group_1", "break_period", "amount"}},
			wantErr: ErrMissingColumn,
		},
		{
			name:    "Activity non-numeric amount",
			derive:  Redemptions,
			sheet:   activitySheet([]string{"A", "X", "redemption", "Q1", "lots"}),
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "Partner unreadable date",
			derive:  PartnerCapital,
			sheet:   partnerSheet([]string{"A", "X", "", "", "Q1", "10"}),
			wantErr: ErrInvalidDate,
		},
		{
			name:    "Empty sheet has no headers",
			derive:  PartnerCapital,
			sheet:   &types.Sheet{Name: "partner_capital", HeaderRow: -1},
			wantErr: ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := tt.derive(tt.sheet)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v; want %v", err, tt.wantErr)
			}
			if table != nil {
				t.Errorf("expected no table on error, got %v", table.Name)
			}
		})
	}
}

func TestHeadersAreTrimmed(t *testing.T) {
	sheet := &types.Sheet{
		Name:    "cap_activity",
		Headers: []string{" fund_name", "investor_name ", "classification", "break_period", "amount"},
		Rows:    [][]string{{"A", "X", "contribution", "Q1", "5"}},
	}

	table, err := Contributions(sheet)
	if err != nil {
		t.Fatalf("Contributions failed: %v", err)
	}
	assertCell(t, table, []string{"A", "X", "contribution"}, "Q1", "5")
}
