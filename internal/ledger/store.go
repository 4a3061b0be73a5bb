// =============================================================================
// Portfolio Ledger - SQLite Store
// =============================================================================
//
// Owns the SQLite database holding ingested holdings, fund metadata and the
// identifier registry. Per-fund-period writes are replace-style inside one
// transaction: delete the fund-period, insert the new rows, so re-ingesting
// a corrected disclosure is always safe.
//
// Market values are stored as REAL. The validation tolerance is relative
// (1e-4), orders of magnitude above float64 noise, so exact decimal storage
// buys nothing here.
//
// =============================================================================

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/extract"
	"github.com/ginjaninja78/portfolio-ledger/internal/reconcile"
)

// =============================================================================
// SCHEMA
// =============================================================================

const schemaSQL = `
CREATE TABLE IF NOT EXISTS holdings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scheme_name TEXT NOT NULL,
    month_end TEXT NOT NULL,
    isin_original TEXT,
    isin_assigned TEXT NOT NULL,
    instrument_name TEXT,
    market_value REAL,
    quantity REAL,
    nse_symbol TEXT,
    name_registry TEXT,
    name_final TEXT,
    isin_mapped TEXT,
    name_mapped TEXT,
    mapping_category TEXT,
    mapping_reason TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS funds (
    scheme_name TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS isin_master (
    isin TEXT PRIMARY KEY,
    name_registry TEXT,
    security_type TEXT,
    status TEXT,
    issuer TEXT,
    nse_symbol TEXT,
    name_exchange TEXT,
    face_value REAL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_holdings_scheme ON holdings(scheme_name);
CREATE INDEX IF NOT EXISTS idx_holdings_month ON holdings(month_end);
CREATE INDEX IF NOT EXISTS idx_holdings_isin_assigned ON holdings(isin_assigned);
CREATE INDEX IF NOT EXISTS idx_holdings_isin_original ON holdings(isin_original);
CREATE INDEX IF NOT EXISTS idx_holdings_scheme_month ON holdings(scheme_name, month_end);
CREATE INDEX IF NOT EXISTS idx_isin_master_nse_symbol ON isin_master(nse_symbol);
`

// =============================================================================
// STORE
// =============================================================================

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under the concurrent ingest workers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Debugw("database opened", "path", path)
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// HOLDINGS
// =============================================================================

// ReplaceHoldings replaces every holding of one fund-period with rows, in a
// single transaction. It returns the number of rows inserted.
func (s *Store) ReplaceHoldings(ctx context.Context, fundCode, monthEnd string, rows []extract.HoldingRow) (int, error) {
	scheme := strings.ToUpper(fundCode)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM holdings WHERE scheme_name = ? AND month_end = ?`,
		scheme, monthEnd); err != nil {
		return 0, fmt.Errorf("clearing %s %s: %w", scheme, monthEnd, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holdings (scheme_name, month_end, isin_original, isin_assigned, instrument_name,
		                      market_value, quantity, nse_symbol, name_registry, name_final,
		                      isin_mapped, name_mapped, mapping_category, mapping_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			scheme, monthEnd, r.ISINOriginal, r.ISINAssigned, r.InstrumentName,
			r.MarketValue.InexactFloat64(), r.Quantity.InexactFloat64(),
			r.NSESymbol, r.NameRegistry, r.DisplayName,
			r.ISINMapped, r.NameMapped, r.MappingCategory, r.MappingReason,
		); err != nil {
			return 0, fmt.Errorf("inserting holding %s: %w", r.ISINAssigned, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %s %s: %w", scheme, monthEnd, err)
	}

	s.log.Infow("holdings replaced", "fund", scheme, "period", monthEnd, "rows", len(rows))
	return len(rows), nil
}

// Holdings returns the persisted rows of one fund-period in insertion order.
func (s *Store) Holdings(ctx context.Context, fundCode, monthEnd string) ([]extract.HoldingRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT isin_original, isin_assigned, instrument_name, market_value, quantity,
		       nse_symbol, name_registry, name_final, isin_mapped, name_mapped,
		       mapping_category, mapping_reason
		FROM holdings
		WHERE scheme_name = ? AND month_end = ?
		ORDER BY id`,
		strings.ToUpper(fundCode), monthEnd)
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer rows.Close()

	var out []extract.HoldingRow
	for rows.Next() {
		var (
			h        extract.HoldingRow
			mvF, qtF float64
		)
		if err := rows.Scan(&h.ISINOriginal, &h.ISINAssigned, &h.InstrumentName, &mvF, &qtF,
			&h.NSESymbol, &h.NameRegistry, &h.DisplayName, &h.ISINMapped, &h.NameMapped,
			&h.MappingCategory, &h.MappingReason); err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		h.MarketValue = decimal.NewFromFloat(mvF)
		h.Quantity = decimal.NewFromFloat(qtF)
		out = append(out, h)
	}
	return out, rows.Err()
}

// AggregateHoldings returns each distinct real identifier with its display
// name and market value summed across every fund-period, the input set for
// reconciliation. Cash and short identifiers are excluded.
func (s *Store) AggregateHoldings(ctx context.Context) ([]reconcile.Input, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT isin_assigned,
		       COALESCE(MAX(name_final), ''),
		       COALESCE(MAX(instrument_name), ''),
		       COALESCE(SUM(market_value), 0),
		       COUNT(DISTINCT scheme_name),
		       GROUP_CONCAT(DISTINCT month_end)
		FROM holdings
		WHERE isin_assigned != 'IN9999999999'
		  AND LENGTH(isin_assigned) >= 12
		GROUP BY isin_assigned
		ORDER BY isin_assigned`)
	if err != nil {
		return nil, fmt.Errorf("querying aggregates: %w", err)
	}
	defer rows.Close()

	var out []reconcile.Input
	for rows.Next() {
		var (
			in               reconcile.Input
			nameFinal, iName string
			mvF              float64
			periods          sql.NullString
		)
		if err := rows.Scan(&in.ISIN, &nameFinal, &iName, &mvF, &in.FundCount, &periods); err != nil {
			return nil, fmt.Errorf("scanning aggregate: %w", err)
		}
		in.Name = nameFinal
		if in.Name == "" {
			in.Name = iName
		}
		in.MarketValue = decimal.NewFromFloat(mvF)
		in.Periods = periods.String
		out = append(out, in)
	}
	return out, rows.Err()
}

// FundPeriodTotal is the persisted market value sum of one fund-period.
type FundPeriodTotal struct {
	FundCode string
	MonthEnd string
	Total    decimal.Decimal
	Rows     int
}

// FundPeriodTotals returns the stored sum for every fund-period, ordered by
// fund then period, for validation against declared totals.
func (s *Store) FundPeriodTotals(ctx context.Context) ([]FundPeriodTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scheme_name, month_end, COALESCE(SUM(market_value), 0), COUNT(*)
		FROM holdings
		GROUP BY scheme_name, month_end
		ORDER BY scheme_name, month_end`)
	if err != nil {
		return nil, fmt.Errorf("querying fund-period totals: %w", err)
	}
	defer rows.Close()

	var out []FundPeriodTotal
	for rows.Next() {
		var (
			t   FundPeriodTotal
			mvF float64
		)
		if err := rows.Scan(&t.FundCode, &t.MonthEnd, &mvF, &t.Rows); err != nil {
			return nil, fmt.Errorf("scanning fund-period total: %w", err)
		}
		t.Total = decimal.NewFromFloat(mvF)
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// FUNDS
// =============================================================================

// UpsertFund records fund metadata, replacing any previous row.
func (s *Store) UpsertFund(ctx context.Context, fundCode, displayName, category string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO funds (scheme_name, display_name, category)
		VALUES (?, ?, ?)`,
		strings.ToUpper(fundCode), displayName, category)
	if err != nil {
		return fmt.Errorf("upserting fund %s: %w", fundCode, err)
	}
	return nil
}
