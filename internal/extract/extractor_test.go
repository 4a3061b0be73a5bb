package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/isin"
	"github.com/ginjaninja78/portfolio-ledger/internal/schema"
	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

func testSchema(dataStart int) schema.Schema {
	return schema.Schema{
		DataStartRow: dataStart,
		NameCol:      0,
		ISINCol:      2,
		QuantityCol:  3,
		ValueCol:     4,
	}
}

func TestExtractRowsBasicWalk(t *testing.T) {
	g := sheet.Grid{
		{"Name of the Instrument", "Industry", "ISIN", "Quantity", "Market Value"},
		{"First Holding Limited", "Banks", "INE000000010", "100", "100"},
		{"Second Holding Limited", "IT", "INE000000028", "50", "200"},
		{"TREPS", "", "", "", "50"},
		{"Grand Total", "", "", "", "350"},
	}

	rows, total := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
	require.Len(t, rows, 3)
	assert.Equal(t, "INE000000010", rows[0].ISINOriginal)
	assert.Equal(t, "INE000000028", rows[1].ISINOriginal)
	assert.Equal(t, "TREPS", rows[2].Name)
	assert.Equal(t, "", rows[2].ISINOriginal)
	assert.True(t, total.Equal(decimal.NewFromInt(350)), "got %s", total)
}

func TestExtractRowsStopExcludesEverythingBelow(t *testing.T) {
	tests := []struct {
		name    string
		stopRow []string
	}{
		{"grand total anywhere in row", []string{"", "", "", "Grand Total", "999"}},
		{"total net assets anywhere in row", []string{"Total Net Assets", "", "", "", "999"}},
		{"bare total in first cell", []string{"Total", "", "", "", "999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sheet.Grid{
				{"header", "", "ISIN", "Qty", "Value"},
				{"Kept Holding Ltd", "", "INE000000010", "1", "10"},
				tt.stopRow,
				{"Phantom Holding Ltd", "", "INE000000028", "1", "20"},
			}
			rows, total := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
			require.Len(t, rows, 1)
			assert.Equal(t, "INE000000010", rows[0].ISINOriginal)
			assert.True(t, total.Equal(decimal.NewFromInt(10)))
		})
	}
}

func TestExtractRowsSkipsSubtotalsAndBanners(t *testing.T) {
	g := sheet.Grid{
		{"header", "", "ISIN", "Qty", "Value"},
		{"Equity & Equity Related", "", "", "", "5000"},
		{"Kept Holding Ltd", "", "INE000000010", "1", "10"},
		{"Sub Total", "", "", "", "10"},
		{"Certificate of Deposit", "", "", "", "2000"},
		{"Bank CD 90D", "", "INE000000036", "1", "20"},
		{"Total - Debt", "", "", "", "20"},
		{"Net Current Assets", "", "", "", "5"},
	}
	rows, total := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
	require.Len(t, rows, 3)
	assert.Equal(t, "Kept Holding Ltd", rows[0].Name)
	assert.Equal(t, "Bank CD 90D", rows[1].Name)
	assert.Equal(t, "Net Current Assets", rows[2].Name)
	assert.True(t, total.Equal(decimal.NewFromInt(35)))
}

func TestExtractRowsSectionBannerWithValidISINIsKept(t *testing.T) {
	// An issuer whose legal name begins with a banner phrase must survive
	// when its identifier cell is valid.
	g := sheet.Grid{
		{"header", "", "ISIN", "Qty", "Value"},
		{"Debt Instruments Finance Ltd", "", "INE000000010", "1", "10"},
	}
	rows, _ := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
	require.Len(t, rows, 1)
}

func TestExtractRowsReverseRepoSubtotalSkipped(t *testing.T) {
	g := sheet.Grid{
		{"header", "", "ISIN", "Qty", "Value"},
		{"Reverse Repo", "", "", "", "300"},
		{"", "", "", "", ""},
		{"Reverse Repo (15 Dec 2025)", "", "", "", "300"},
	}
	rows, total := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
	require.Len(t, rows, 1)
	assert.Equal(t, "Reverse Repo (15 Dec 2025)", rows[0].Name)
	assert.True(t, total.Equal(decimal.NewFromInt(300)))
}

func TestExtractRowsReverseRepoStandaloneKept(t *testing.T) {
	g := sheet.Grid{
		{"header", "", "ISIN", "Qty", "Value"},
		{"Reverse Repo", "", "", "", "300"},
		{"Net Current Assets", "", "", "", "12"},
	}
	rows, _ := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
	require.Len(t, rows, 2)
	assert.Equal(t, "Reverse Repo", rows[0].Name)
}

func TestExtractRowsDropsZeroValuePlaceholders(t *testing.T) {
	g := sheet.Grid{
		{"header", "", "ISIN", "Qty", "Value"},
		{"Placeholder Ltd", "", "INE000000010", "0", "0"},
		{"Blank Value Ltd", "", "INE000000028", "10", ""},
		{"Real Holding Ltd", "", "INE000000036", "10", "1,234.50"},
	}
	rows, total := ExtractRows(g, testSchema(1), zap.NewNop().Sugar())
	require.Len(t, rows, 1)
	assert.Equal(t, "Real Holding Ltd", rows[0].Name)
	assert.True(t, total.Equal(decimal.RequireFromString("1234.50")))
}

func TestAssign(t *testing.T) {
	assert.Equal(t, "INE000000010", Assign("INE000000010"))
	assert.Equal(t, "INE000000010", Assign("  INE000000010  "))
	assert.Equal(t, isin.Cash, Assign(""))
	assert.Equal(t, isin.Cash, Assign("TREPS"))
	assert.Equal(t, isin.Cash, Assign("INE0000001")) // too short
}
