// =============================================================================
// Portfolio Ledger - Mapping Table Loader
// =============================================================================

package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// LoadMappingTable reads a tab-separated mapping table keyed by the original
// identifier. A missing file is not an error: reconciliation runs after the
// first ingest, so the first ingest legitimately has no table yet and gets
// an empty one.
func LoadMappingTable(path string) (MappingTable, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return MappingTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening mapping table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = 5

	header, err := r.Read()
	if err == io.EOF {
		return MappingTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading mapping table header: %w", err)
	}
	if header[0] != "isin_original" {
		return nil, fmt.Errorf("mapping table %s: unexpected header %q", path, header[0])
	}

	table := MappingTable{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading mapping table: %w", err)
		}
		table[rec[0]] = Mapping{
			ISINMapped: rec[1],
			NameMapped: rec[2],
			Category:   rec[3],
			Reason:     rec[4],
		}
	}
	return table, nil
}
