// =============================================================================
// Portfolio Ledger - Reconciliation Artifacts
// =============================================================================
//
// Writes the two tab-separated artifacts of a reconciliation run:
//
//   - The audit file, isin_validation_<runid>.tsv: the complete partition,
//     every classified row including TARGET and NONE records, sorted for
//     human review.
//
//   - The mapping table: only MAP and AGGREGATE rows, in the reduced format
//     extraction consumes. Written twice: once as an immutable per-run
//     snapshot, mapping_<runid>.tsv, and once at the stable name
//     isin_mapping_final.tsv that subsequent ingests read. The snapshot is
//     what makes a past extraction run reproducible after later
//     reconciliations move the stable file on.
//
// =============================================================================

package reconcile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// MappingFileName is the stable artifact name ingest reads.
const MappingFileName = "isin_mapping_final.tsv"

var auditHeader = []string{
	"name_cut", "category", "action", "reason",
	"isin_original", "isin_mapped", "name_original", "name_mapped",
	"mv", "issuer_code",
}

var mappingHeader = []string{
	"isin_original", "isin_mapped", "name_mapped", "category", "reason",
}

// WriteAuditFile writes the full partition for manual review and returns the
// file path. Rows are sorted by category, name key, then identifier.
func WriteAuditFile(res *Result, dir, runID string) (string, error) {
	rows := make([]Row, len(res.All))
	copy(rows, res.All)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		if rows[i].NameCut != rows[j].NameCut {
			return rows[i].NameCut < rows[j].NameCut
		}
		return rows[i].ISINOriginal < rows[j].ISINOriginal
	})

	path := filepath.Join(dir, fmt.Sprintf("isin_validation_%s.tsv", runID))
	records := [][]string{auditHeader}
	for _, r := range rows {
		records = append(records, []string{
			r.NameCut, r.Category, r.Action, r.Reason,
			r.ISINOriginal, r.ISINMapped, r.NameOriginal, r.NameMapped,
			r.MarketValue.StringFixed(2), r.IssuerCode,
		})
	}

	if err := writeTSV(path, records); err != nil {
		return "", err
	}
	return path, nil
}

// WriteMappingFiles writes the reduced mapping table as both the per-run
// snapshot and the stable file. It returns the snapshot path.
func WriteMappingFiles(res *Result, dir, runID string) (string, error) {
	records := [][]string{mappingHeader}
	for _, r := range res.MappingRows() {
		records = append(records, []string{
			r.ISINOriginal, r.ISINMapped, r.NameMapped, r.Category, r.Reason,
		})
	}

	snapshot := filepath.Join(dir, fmt.Sprintf("mapping_%s.tsv", runID))
	if err := writeTSV(snapshot, records); err != nil {
		return "", err
	}
	if err := writeTSV(filepath.Join(dir, MappingFileName), records); err != nil {
		return "", err
	}
	return snapshot, nil
}

func writeTSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
