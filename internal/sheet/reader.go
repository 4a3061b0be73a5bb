// =============================================================================
// Portfolio Ledger - Spreadsheet Reader
// =============================================================================
//
// Opens publisher disclosure workbooks with excelize and materializes the
// requested sheet as a Grid. Publisher sites routinely serve files with the
// wrong extension (an .xlsx that is really OLE2/XLS, and vice versa), so the
// reader sniffs the actual container format from the first bytes before
// opening, and reports legacy XLS files with an actionable error instead of
// excelize's generic one.
//
// When the configured sheet name is missing (publishers rename sheets between
// months), the reader falls back to scanning every sheet for one that carries
// an "isin" header cell in its first rows.
//
// =============================================================================

package sheet

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Format is the sniffed container format of a workbook file.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX           // OOXML zip container
	FormatXLS            // OLE2 compound document
)

// ole2Signature is the magic prefix of an OLE2 compound document.
var ole2Signature = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// headerScanRows bounds the fallback scan for an "isin" header cell.
const headerScanRows = 30

// DetectFormat sniffs the real workbook format from the file header,
// regardless of extension.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, []byte("PK")):
		return FormatXLSX, nil
	case bytes.HasPrefix(header, ole2Signature):
		return FormatXLS, nil
	default:
		return FormatUnknown, nil
	}
}

// Reader loads disclosure sheets into Grids.
type Reader struct {
	log *zap.SugaredLogger
}

// NewReader creates a Reader. The logger must not be nil.
func NewReader(log *zap.SugaredLogger) *Reader {
	return &Reader{log: log}
}

// Read opens the workbook at path and returns the named sheet as a Grid.
// If sheetName is absent from the workbook it scans the remaining sheets for
// one whose leading rows contain an "isin" header cell and uses that instead.
func (r *Reader) Read(path, sheetName string) (Grid, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatXLS {
		return nil, fmt.Errorf("%s is a legacy OLE2/XLS workbook; convert it to XLSX before ingesting", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err == nil {
		r.log.Debugw("loaded sheet", "path", path, "sheet", sheetName, "rows", len(rows))
		return Grid(rows), nil
	}

	// Configured sheet is missing. Scan for one that looks like a holdings
	// disclosure before giving up.
	for _, name := range f.GetSheetList() {
		candidate, cerr := f.GetRows(name)
		if cerr != nil {
			continue
		}
		if hasISINHeader(candidate) {
			r.log.Infow("configured sheet missing, using fallback",
				"path", path, "want", sheetName, "got", name)
			return Grid(candidate), nil
		}
	}

	return nil, fmt.Errorf("sheet %q not found in %s and no sheet with an ISIN header exists", sheetName, path)
}

// hasISINHeader reports whether any cell in the leading rows mentions "isin".
func hasISINHeader(rows [][]string) bool {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(strings.ToLower(cell), "isin") {
				return true
			}
		}
	}
	return false
}
