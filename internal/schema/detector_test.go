package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

func TestDetectTypicalLayout(t *testing.T) {
	g := sheet.Grid{
		{"Axis Midcap Fund"},
		{"Portfolio as on 31-Dec-2025"},
		{"Name of the Instrument", "Industry", "ISIN", "Quantity", "Market Value (Rs. in Lakhs)", "% to NAV"},
		{""},
		{"Equity & Equity Related"},
		{"Some Company Limited", "Banks", "INE000000010", "1200", "100.50", "1.2"},
		{"Another Co Ltd", "IT", "INE000000028", "300", "200.00", "2.4"},
		{"Grand Total", "", "", "", "300.50", ""},
	}

	s, err := Detect(g)
	require.NoError(t, err)
	assert.Equal(t, 5, s.DataStartRow)
	assert.Equal(t, 2, s.ISINCol)
	assert.Equal(t, 0, s.NameCol)
	assert.Equal(t, 4, s.ValueCol)
	assert.Equal(t, 3, s.QuantityCol)
	require.True(t, s.HasGrandTotal)
	assert.Equal(t, 7, s.GrandTotalRow)
	assert.True(t, s.GrandTotal.Equal(decimal.RequireFromString("300.50")))
}

func TestDetectFirstKeywordWinsPerRole(t *testing.T) {
	// Two value-ish headers; the first one ("Market Value") must claim the
	// role, and "Net Asset Value %" must never claim it at all.
	g := sheet.Grid{
		{"Company Name", "ISIN", "Market Value", "Fair Value", "Net Asset Value %"},
		{"X Ltd", "INE111111117", "50000", "49000", "5.0"},
	}
	s, err := Detect(g)
	require.NoError(t, err)
	assert.Equal(t, 2, s.ValueCol)
	assert.Equal(t, 0, s.NameCol)
	assert.Equal(t, 1, s.ISINCol)
}

func TestDetectNoISINHeader(t *testing.T) {
	g := sheet.Grid{
		{"Instrument", "Value"},
		{"Something", "10"},
	}
	_, err := Detect(g)
	require.ErrorIs(t, err, ErrNoISINHeader)
}

func TestDetectNoDataStart(t *testing.T) {
	g := sheet.Grid{
		{"Instrument", "ISIN", "Market Value"},
		{"Section header only", "", ""},
	}
	_, err := Detect(g)
	require.ErrorIs(t, err, ErrNoDataStart)
}

func TestDetectSkipsLabelRowsBeforeData(t *testing.T) {
	g := sheet.Grid{
		{"Instrument", "ISIN", "Market Value"},
		{"", "", ""},
		{"Equity & Equity Related", "", ""},
		{"Listed / Awaiting Listing", "", ""},
		{"First Holding Ltd", "INE000000010", "100"},
	}
	s, err := Detect(g)
	require.NoError(t, err)
	assert.Equal(t, 4, s.DataStartRow)
}

func TestOverrideReplacesDetectedColumns(t *testing.T) {
	g := sheet.Grid{
		{"", "ISIN", "Name of the Instrument", "Quantity", "Market Value"},
		{"", "INE000000010", "X Ltd", "10", "100"},
	}
	s, err := Detect(g)
	require.NoError(t, err)

	three, seven := 3, 7
	o := &Override{QuantityCol: &three, ValueCol: &seven}
	s2 := o.Apply(s)
	assert.Equal(t, 3, s2.QuantityCol)
	assert.Equal(t, 7, s2.ValueCol)
	assert.Equal(t, s.ISINCol, s2.ISINCol)
	// Original schema untouched.
	assert.Equal(t, 4, s.ValueCol)
}

func TestLocateGrandTotalPatterns(t *testing.T) {
	tests := []struct {
		name     string
		grid     sheet.Grid
		valueCol int
		wantRow  int
		want     string
		found    bool
	}{
		{
			name: "grand total reads value column",
			grid: sheet.Grid{
				{"row"},
				{"Grand Total", "99", "350000.25"},
			},
			valueCol: 2,
			wantRow:  1,
			want:     "350000.25",
			found:    true,
		},
		{
			name: "total net assets scans for large number",
			grid: sheet.Grid{
				{"Total Net Assets", "0.52", "1.00", "123456.78"},
			},
			valueCol: 1,
			wantRow:  0,
			want:     "123456.78",
			found:    true,
		},
		{
			name: "exact total in first cell",
			grid: sheet.Grid{
				{"Sub Total", "", "99.9"},
				{"Total", "", "98765.43"},
			},
			valueCol: 2,
			wantRow:  1,
			want:     "98765.43",
			found:    true,
		},
		{
			name: "sub total alone never matches",
			grid: sheet.Grid{
				{"Sub Total", "", "98765.43"},
			},
			valueCol: 2,
			found:    false,
		},
		{
			name: "absent total is legal",
			grid: sheet.Grid{
				{"Holding", "INE000000010", "100"},
			},
			valueCol: 2,
			found:    false,
		},
		{
			name: "small numbers below floor are skipped",
			grid: sheet.Grid{
				{"Total Net Assets", "0.1", "100"},
			},
			valueCol: 1,
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, total, found := LocateGrandTotal(tt.grid, tt.valueCol)
			require.Equal(t, tt.found, found)
			if found {
				assert.Equal(t, tt.wantRow, row)
				assert.True(t, total.Equal(decimal.RequireFromString(tt.want)),
					"got %s want %s", total, tt.want)
			}
		})
	}
}
