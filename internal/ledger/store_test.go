package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/extract"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func holding(isinAssigned, name string, mv int64) extract.HoldingRow {
	return extract.HoldingRow{
		ISINOriginal:   isinAssigned,
		ISINAssigned:   isinAssigned,
		InstrumentName: name,
		DisplayName:    name,
		ISINMapped:     isinAssigned,
		NameMapped:     name,
		MarketValue:    decimal.NewFromInt(mv),
		Quantity:       decimal.NewFromInt(1),
	}
}

func TestReplaceHoldingsIsUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.ReplaceHoldings(ctx, "axis_midcap", "2025-12-31", []extract.HoldingRow{
		holding("INE000000010", "First Holding", 100),
		holding("INE000000028", "Second Holding", 200),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-ingest the same fund-period with corrected data.
	n, err = s.ReplaceHoldings(ctx, "AXIS_MIDCAP", "2025-12-31", []extract.HoldingRow{
		holding("INE000000010", "First Holding", 150),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := s.Holdings(ctx, "axis_midcap", "2025-12-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INE000000010", rows[0].ISINAssigned)
	assert.True(t, rows[0].MarketValue.Equal(decimal.NewFromInt(150)))
}

func TestReplaceHoldingsLeavesOtherPeriodsAlone(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceHoldings(ctx, "fund_a", "2025-11-30", []extract.HoldingRow{holding("INE000000010", "X", 10)})
	require.NoError(t, err)
	_, err = s.ReplaceHoldings(ctx, "fund_a", "2025-12-31", []extract.HoldingRow{holding("INE000000010", "X", 20)})
	require.NoError(t, err)

	totals, err := s.FundPeriodTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "FUND_A", totals[0].FundCode)
	assert.Equal(t, "2025-11-30", totals[0].MonthEnd)
	assert.True(t, totals[0].Total.Equal(decimal.NewFromInt(10)))
	assert.True(t, totals[1].Total.Equal(decimal.NewFromInt(20)))
}

func TestAggregateHoldingsExcludesCashAndSumsAcrossFunds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceHoldings(ctx, "fund_a", "2025-12-31", []extract.HoldingRow{
		holding("INE000000010", "Shared Holding", 100),
		holding("IN9999999999", "Cash & Other Assets", 50),
	})
	require.NoError(t, err)
	_, err = s.ReplaceHoldings(ctx, "fund_b", "2025-12-31", []extract.HoldingRow{
		holding("INE000000010", "Shared Holding", 300),
	})
	require.NoError(t, err)

	aggs, err := s.AggregateHoldings(ctx)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "INE000000010", aggs[0].ISIN)
	assert.Equal(t, "Shared Holding", aggs[0].Name)
	assert.Equal(t, 2, aggs[0].FundCount)
	assert.True(t, aggs[0].MarketValue.Equal(decimal.NewFromInt(400)))
}

func TestUpsertFund(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFund(ctx, "axis_midcap", "Axis Midcap Fund", "MIDCAP"))
	require.NoError(t, s.UpsertFund(ctx, "axis_midcap", "Axis Midcap Fund - Direct", "MIDCAP"))

	var name string
	err := s.db.QueryRow(`SELECT display_name FROM funds WHERE scheme_name = 'AXIS_MIDCAP'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "Axis Midcap Fund - Direct", name)
}

func TestRegistryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.ReplaceRegistry(ctx, []MasterRow{
		{ISIN: "INE000000010", NameRegistry: "FIRST HOLDING LIMITED", NSESymbol: "FIRSTHLD"},
		{ISIN: "INE000000028", NameRegistry: "SECOND HOLDING LIMITED"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := s.RegistryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	reg, err := s.LoadRegistry(ctx)
	require.NoError(t, err)
	e, ok := reg.Lookup("INE000000010")
	require.True(t, ok)
	assert.Equal(t, "FIRST HOLDING LIMITED", e.Name)
	assert.Equal(t, "FIRSTHLD", e.NSESymbol)
	_, ok = reg.Lookup("IN9999999999")
	assert.False(t, ok)
}

func TestReadMasterCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "master.csv")
	content := "isin,name_registry,security_type,status,issuer,nse_symbol,name_exchange,face_value\n" +
		"INE000000010,FIRST HOLDING LIMITED,01,ACTIVE,FIRST HOLDING,FIRSTHLD,First Holding,10\n" +
		"INE000000028,SECOND HOLDING LIMITED,01,ACTIVE,SECOND HOLDING,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := ReadMasterCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "FIRSTHLD", rows[0].NSESymbol)
	assert.Equal(t, 10.0, rows[0].FaceValue)
	assert.Equal(t, 0.0, rows[1].FaceValue)
}
