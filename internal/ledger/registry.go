// =============================================================================
// Portfolio Ledger - Identifier Registry
// =============================================================================
//
// The isin_master table mirrors the depository's identifier master: one row
// per identifier with the registry name and, for listed equities, the
// exchange symbol. It is replaced wholesale on import and loaded wholesale
// into memory for resolution; at a few hundred thousand rows the map costs
// tens of megabytes and saves a query per holding.
//
// =============================================================================

package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ginjaninja78/portfolio-ledger/internal/extract"
)

// MasterRow is one identifier-registry record.
type MasterRow struct {
	ISIN         string
	NameRegistry string
	SecurityType string
	Status       string
	Issuer       string
	NSESymbol    string
	NameExchange string
	FaceValue    float64
}

// ReplaceRegistry replaces the whole isin_master table with rows.
func (s *Store) ReplaceRegistry(ctx context.Context, rows []MasterRow) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM isin_master`); err != nil {
		return 0, fmt.Errorf("clearing registry: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO isin_master (isin, name_registry, security_type, status, issuer,
		                         nse_symbol, name_exchange, face_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing registry insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ISIN, r.NameRegistry, r.SecurityType,
			r.Status, r.Issuer, r.NSESymbol, r.NameExchange, r.FaceValue); err != nil {
			return 0, fmt.Errorf("inserting registry row %s: %w", r.ISIN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing registry: %w", err)
	}
	s.log.Infow("registry replaced", "rows", len(rows))
	return len(rows), nil
}

// memoryRegistry satisfies extract.Registry from a preloaded map.
type memoryRegistry map[string]extract.RegistryEntry

func (m memoryRegistry) Lookup(id string) (extract.RegistryEntry, bool) {
	e, ok := m[id]
	return e, ok
}

// LoadRegistry loads the full isin_master table into memory for resolution.
// An empty table yields a registry that misses everything, which is fine:
// resolution falls back to sheet names.
func (s *Store) LoadRegistry(ctx context.Context) (extract.Registry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT isin, COALESCE(name_registry, ''), COALESCE(nse_symbol, '')
		FROM isin_master`)
	if err != nil {
		return nil, fmt.Errorf("querying registry: %w", err)
	}
	defer rows.Close()

	reg := memoryRegistry{}
	for rows.Next() {
		var id, name, symbol string
		if err := rows.Scan(&id, &name, &symbol); err != nil {
			return nil, fmt.Errorf("scanning registry row: %w", err)
		}
		reg[id] = extract.RegistryEntry{Name: name, NSESymbol: symbol}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.log.Debugw("registry loaded", "entries", len(reg))
	return reg, nil
}

// RegistryCount returns the number of registry rows.
func (s *Store) RegistryCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM isin_master`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting registry: %w", err)
	}
	return n, nil
}

// ReadMasterCSV parses a registry export in the merged master format:
// isin, name_registry, security_type, status, issuer, nse_symbol,
// name_exchange, face_value, with a header row. Blank face values parse
// as zero.
func ReadMasterCSV(path string) ([]MasterRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening registry export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 8

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("reading registry header: %w", err)
	}

	var rows []MasterRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading registry export: %w", err)
		}
		row := MasterRow{
			ISIN:         rec[0],
			NameRegistry: rec[1],
			SecurityType: rec[2],
			Status:       rec[3],
			Issuer:       rec[4],
			NSESymbol:    rec[5],
			NameExchange: rec[6],
		}
		if rec[7] != "" {
			row.FaceValue, _ = strconv.ParseFloat(rec[7], 64)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
