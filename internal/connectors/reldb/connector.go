// Package reldb implements the Connector interface for local relational
// databases in two dialect branches: MySQL-family and SQLServer-family.
//
// Every operation opens a fresh connection and closes it before returning
// (connect, operate, disconnect, never pooled across cycles). This trades
// connection-setup latency for crash-safety: a hung connection cannot
// silently persist into the next sync cycle.
package reldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/microsoft/go-mssqldb" // SQL Server driver

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// connectTimeout bounds each per-operation connection attempt.
const connectTimeout = 10 * time.Second

// Connector reads products from a configured relational database.
type Connector struct {
	cfg *domain.DBConfig
}

// New creates a relational database connector.
func New(cfg *domain.DBConfig) *Connector {
	return &Connector{cfg: cfg}
}

// Type returns the connector kind tag.
func (c *Connector) Type() domain.ConnectorKind {
	return domain.KindLocalDB
}

// Capabilities reports write-back support only when an update statement
// is configured. Incremental sync needs schema-specific change tracking
// (a last-modified column or change log) and is not implemented.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsIncremental: false,
		SupportsWriteBack:   c.cfg.StockUpdateQuery != "",
		SupportsWatch:       false,
		RequiresAuth:        true,
	}
}

// Connect validates the configuration. Connections themselves are opened
// per operation, so there is nothing to hold open here.
func (c *Connector) Connect(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}

// TestConnection performs a full connect+disconnect round-trip and
// swallows all errors.
func (c *Connector) TestConnection(ctx context.Context) bool {
	if err := c.cfg.Validate(); err != nil {
		logger.Debug("db test connection", "err", err)
		return false
	}
	db, err := c.open(ctx)
	if err != nil {
		logger.Debug("db test connection", "err", err)
		return false
	}
	db.Close()
	return true
}

// FetchProducts executes the configured product query and maps each row
// through the field mapping into a canonical record. Rows without a SKU
// value cannot be reconciled and are skipped with a warning.
func (c *Connector) FetchProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, c.cfg.ProductQuery)
	if err != nil {
		return nil, fmt.Errorf("product query: %w", err)
	}
	defer rows.Close()

	raw, err := rowsToMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("product query results: %w", err)
	}

	records := make([]domain.ProductRecord, 0, len(raw))
	for i, row := range raw {
		rec, err := c.cfg.Mapping.MapRow(row)
		if err != nil {
			logger.Warn("skipping unmappable row", "row", i, "err", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchStockChanges returns no deltas; this connector is full-sync only
// until schema-specific change tracking is configured.
func (c *Connector) FetchStockChanges(_ context.Context, _ time.Time) ([]domain.StockChange, error) {
	return nil, nil
}

// ApplyStockUpdate executes the configured update statement with the new
// quantity and the SKU. Failures are logged and reported as false so the
// command poller can ack without crashing.
func (c *Connector) ApplyStockUpdate(ctx context.Context, sku string, quantity int) bool {
	if c.cfg.StockUpdateQuery == "" {
		logger.Warn("stock update not configured for this database source", "sku", sku)
		return false
	}

	db, err := c.open(ctx)
	if err != nil {
		logger.Error("stock update connect", "sku", sku, "err", err)
		return false
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, c.cfg.StockUpdateQuery, quantity, sku)
	if err != nil {
		logger.Error("stock update exec", "sku", sku, "err", err)
		return false
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		logger.Warn("stock update matched no rows", "sku", sku)
		return false
	}
	return true
}

// Disconnect is a no-op: connections are per-operation. Safe to call any
// number of times, including before Connect.
func (c *Connector) Disconnect() error {
	return nil
}

// open dials a fresh connection for one operation and verifies it.
func (c *Connector) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverName(c.cfg.Dialect), buildDSN(c.cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}

	// One connection per operation, nothing idles afterwards.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}
	return db, nil
}

// rowsToMaps converts a result set to one map per row, with []byte values
// decoded to strings for mapping.
func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
