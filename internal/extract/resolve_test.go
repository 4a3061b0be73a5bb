package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/isin"
	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

// mapRegistry is a Registry over a plain map, for tests.
type mapRegistry map[string]RegistryEntry

func (m mapRegistry) Lookup(id string) (RegistryEntry, bool) {
	e, ok := m[id]
	return e, ok
}

func TestResolveRegistryNameWins(t *testing.T) {
	reg := mapRegistry{
		"INE000000010": {Name: "FIRST HOLDING LIMITED", NSESymbol: "FIRSTHLD"},
	}
	r := NewResolver(reg, nil)

	row := r.Resolve(Candidate{
		ISINOriginal: "INE000000010",
		Name:         "First Holding Ltd #",
		MarketValue:  decimal.NewFromInt(10),
	})
	assert.Equal(t, "INE000000010", row.ISINAssigned)
	assert.Equal(t, "FIRST HOLDING LIMITED", row.NameRegistry)
	assert.Equal(t, "FIRST HOLDING LIMITED", row.DisplayName)
	assert.Equal(t, "FIRSTHLD", row.NSESymbol)
	assert.Equal(t, "First Holding Ltd #", row.InstrumentName)
	// Mapping defaults onto itself.
	assert.Equal(t, "INE000000010", row.ISINMapped)
	assert.Equal(t, "FIRST HOLDING LIMITED", row.NameMapped)
	assert.Equal(t, "", row.MappingCategory)
}

func TestResolveSheetNameFallback(t *testing.T) {
	r := NewResolver(mapRegistry{}, nil)
	row := r.Resolve(Candidate{ISINOriginal: "INE000000028", Name: "Unknown Co Ltd", MarketValue: decimal.NewFromInt(1)})
	assert.Equal(t, "", row.NameRegistry)
	assert.Equal(t, "Unknown Co Ltd", row.DisplayName)
}

func TestResolveCashRow(t *testing.T) {
	r := NewResolver(nil, nil)
	row := r.Resolve(Candidate{ISINOriginal: "", Name: "TREPS", MarketValue: decimal.NewFromInt(50)})
	assert.Equal(t, isin.Cash, row.ISINAssigned)
	assert.Equal(t, isin.CashDisplayName, row.DisplayName)
	assert.Equal(t, "CASH_AGGREGATE", row.MappingCategory)
	assert.Equal(t, cashMappingReason, row.MappingReason)
	assert.Equal(t, isin.Cash, row.ISINMapped)
}

func TestResolveAppliesMapping(t *testing.T) {
	mappings := MappingTable{
		"INE012A01015": {
			ISINMapped: "INE012A01023",
			NameMapped: "BHARAT ELECTRONICS LIMITED",
			Category:   "CORPORATE_ACTION",
			Reason:     "Same issuer 012A, equity, serial 01 -> 02",
		},
	}
	r := NewResolver(nil, mappings)
	row := r.Resolve(Candidate{ISINOriginal: "INE012A01015", Name: "Bharat Elec", MarketValue: decimal.NewFromInt(1)})
	assert.Equal(t, "INE012A01015", row.ISINAssigned)
	assert.Equal(t, "INE012A01023", row.ISINMapped)
	assert.Equal(t, "BHARAT ELECTRONICS LIMITED", row.NameMapped)
	assert.Equal(t, "CORPORATE_ACTION", row.MappingCategory)
}

func TestProjectFoldsSummary(t *testing.T) {
	g := sheet.Grid{
		{"Name", "", "ISIN", "Qty", "Value"},
		{"Known Co Ltd", "", "INE000000010", "1", "100"},
		{"Unknown Co Ltd", "", "INE000000028", "1", "200"},
		{"TREPS", "", "", "", "50"},
		{"Grand Total", "", "", "", "350"},
	}
	reg := mapRegistry{"INE000000010": {Name: "KNOWN CO LIMITED"}}
	p := NewProjector(reg, nil, zap.NewNop().Sugar())

	proj := p.Project(g, testSchema(1))
	require.Len(t, proj.Rows, 3)
	assert.True(t, proj.ComputedTotal.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, 3, proj.Summary.Rows)
	assert.Equal(t, 2, proj.Summary.ValidISINs)
	assert.Equal(t, 1, proj.Summary.CashRows)
	assert.Equal(t, 1, proj.Summary.UnknownToRegistry)
	require.Len(t, proj.Unmapped, 1)
	assert.Equal(t, "INE000000028", proj.Unmapped[0].ISIN)

	// The cash row was assigned, so it shows up in the breakdown.
	require.Len(t, proj.Summary.Assigned, 1)
	bucket := proj.Summary.Assigned[0]
	assert.Equal(t, isin.Cash, bucket.ISIN)
	assert.Equal(t, 1, bucket.Count)
	assert.True(t, bucket.MarketValue.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{"TREPS"}, bucket.Names)
}

func TestLoadMappingTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "isin_mapping_final.tsv")
	content := "isin_original\tisin_mapped\tname_mapped\tcategory\treason\n" +
		"INE012A01015\tINE012A01023\tBHARAT ELECTRONICS LIMITED\tCORPORATE_ACTION\tSame issuer 012A, equity, serial 01 -> 02\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadMappingTable(path)
	require.NoError(t, err)
	require.Len(t, table, 1)
	m := table["INE012A01015"]
	assert.Equal(t, "INE012A01023", m.ISINMapped)
	assert.Equal(t, "CORPORATE_ACTION", m.Category)
}

func TestLoadMappingTableMissingFileIsEmpty(t *testing.T) {
	table, err := LoadMappingTable(filepath.Join(t.TempDir(), "nope.tsv"))
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestLoadMappingTableRejectsWrongHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\tc\td\te\n"), 0o644))
	_, err := LoadMappingTable(path)
	require.Error(t, err)
}
