// Package flatfile implements the Connector interface for CSV and
// spreadsheet snapshots, either as an explicit single file or as a watched
// folder from which the most-recently-modified matching file is selected
// at each fetch.
//
// This source family is full-sync only by design: file snapshots carry no
// change history, and write-back to a flat file is unsupported as a
// capability limitation: ApplyStockUpdate fails fast without I/O.
package flatfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.Connector = (*Connector)(nil)
	_ driven.Watcher   = (*Connector)(nil)
)

// matchExtensions are the file types picked up from a watched folder.
var matchExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// Connector reads product snapshots from flat files.
type Connector struct {
	cfg *domain.FileConfig
}

// New creates a flat-file connector.
func New(cfg *domain.FileConfig) *Connector {
	return &Connector{cfg: cfg}
}

// Type returns the connector kind tag.
func (c *Connector) Type() domain.ConnectorKind {
	return domain.KindCSV
}

// Capabilities reports folder-mode change watching; no incremental sync
// and no write-back.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsIncremental: false,
		SupportsWriteBack:   false,
		SupportsWatch:       c.cfg.FolderPath != "",
		RequiresAuth:        false,
	}
}

// Connect verifies the configured path exists. Content is not validated;
// a malformed file surfaces at fetch time.
func (c *Connector) Connect(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path := c.cfg.FilePath
	if path == "" {
		path = c.cfg.FolderPath
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}
	return nil
}

// TestConnection reports whether the configured path exists.
func (c *Connector) TestConnection(ctx context.Context) bool {
	if err := c.Connect(ctx); err != nil {
		logger.Debug("flat-file test connection", "err", err)
		return false
	}
	return true
}

// FetchProducts parses the selected file into raw rows and maps them
// through the field mapping. Rows without a SKU value are skipped with a
// warning.
func (c *Connector) FetchProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	path, err := c.resolveFile()
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var raw []map[string]any
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		raw, err = parseCSV(path)
	} else {
		raw, err = parseWorkbook(path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	records := make([]domain.ProductRecord, 0, len(raw))
	for i, row := range raw {
		rec, err := c.cfg.Mapping.MapRow(row)
		if err != nil {
			logger.Warn("skipping unmappable row", "file", filepath.Base(path), "row", i+2, "err", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchStockChanges always returns empty: snapshots have no change history.
func (c *Connector) FetchStockChanges(_ context.Context, _ time.Time) ([]domain.StockChange, error) {
	return nil, nil
}

// ApplyStockUpdate always fails without attempting I/O. Write-back to a
// flat file would race the program that produces it.
func (c *Connector) ApplyStockUpdate(_ context.Context, sku string, _ int) bool {
	logger.Warn("stock write-back is not supported for flat-file sources", "sku", sku)
	return false
}

// Disconnect is a no-op; nothing stays open between fetches.
func (c *Connector) Disconnect() error {
	return nil
}

// resolveFile returns the configured file, or the most-recently-modified
// matching file from the watched folder.
func (c *Connector) resolveFile() (string, error) {
	if c.cfg.FilePath != "" {
		if _, err := os.Stat(c.cfg.FilePath); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
		}
		return c.cfg.FilePath, nil
	}

	entries, err := os.ReadDir(c.cfg.FolderPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !matchExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(c.cfg.FolderPath, entry.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: no csv or spreadsheet file in %s", domain.ErrNotFound, c.cfg.FolderPath)
	}
	return newest, nil
}

// parseCSV reads header + data rows into one map per row.
func parseCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseWorkbook reads the first sheet of a spreadsheet into one map per
// row, using the first row as the header.
func parseWorkbook(path string) ([]map[string]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := all[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]any
	for _, record := range all[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
