// Package zohobooks implements the Connector interface over the Zoho
// Books accounting API with bearer-token authentication.
package zohobooks

import (
	"context"
	"fmt"
	"time"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// maxPages caps pagination as a runaway guard; at 200 items per page this
// covers catalogs far beyond a grocery retailer's.
const maxPages = 50

// Connector reads items from a Zoho Books organization.
type Connector struct {
	cfg    *domain.ZohoConfig
	client *Client
}

// New creates a Zoho Books connector.
func New(cfg *domain.ZohoConfig) *Connector {
	return &Connector{cfg: cfg}
}

// Type returns the connector kind tag.
func (c *Connector) Type() domain.ConnectorKind {
	return domain.KindZohoBooks
}

// Capabilities reports write-back support; incremental sync would need
// Zoho's modified_time filters and is not implemented.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsIncremental: false,
		SupportsWriteBack:   true,
		SupportsWatch:       false,
		RequiresAuth:        true,
	}
}

// Connect validates the configuration and builds the API client with the
// currently configured access token. No refresh flow runs here; the
// client's token source is the seam a refresh flow would replace.
func (c *Connector) Connect(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	c.client = NewClient(c.cfg)
	return nil
}

// TestConnection performs a lightweight authenticated GET and reports the
// outcome as a boolean.
func (c *Connector) TestConnection(ctx context.Context) bool {
	if c.client == nil {
		if err := c.Connect(ctx); err != nil {
			logger.Debug("zoho test connection", "err", err)
			return false
		}
	}
	if err := c.client.CheckAuth(ctx); err != nil {
		logger.Debug("zoho test connection", "err", err)
		return false
	}
	return true
}

// FetchProducts pages through the organization's items and maps them into
// canonical records. Items without a SKU cannot be reconciled and are
// skipped with a warning.
func (c *Connector) FetchProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	if c.client == nil {
		return nil, domain.ErrNotConnected
	}

	var records []domain.ProductRecord
	for page := 1; page <= maxPages; page++ {
		items, more, err := c.client.ListItems(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("list items page %d: %w", page, err)
		}
		for _, item := range items {
			if item.SKU == "" {
				logger.Warn("skipping zoho item without sku", "item", item.ItemID, "name", item.Name)
				continue
			}
			records = append(records, mapItem(item))
		}
		if !more {
			break
		}
	}
	return records, nil
}

// FetchStockChanges always returns empty; this connector is full-sync only.
func (c *Connector) FetchStockChanges(_ context.Context, _ time.Time) ([]domain.StockChange, error) {
	return nil, nil
}

// ApplyStockUpdate resolves the item by SKU, then writes the new absolute
// quantity. The whole operation fails when the lookup fails.
func (c *Connector) ApplyStockUpdate(ctx context.Context, sku string, quantity int) bool {
	if c.client == nil {
		logger.Error("stock update before connect", "sku", sku)
		return false
	}

	item, err := c.client.FindItemBySKU(ctx, sku)
	if err != nil {
		logger.Error("stock update lookup", "sku", sku, "err", err)
		return false
	}
	if err := c.client.UpdateItemStock(ctx, item.ItemID, quantity); err != nil {
		logger.Error("stock update write", "sku", sku, "item", item.ItemID, "err", err)
		return false
	}
	return true
}

// Disconnect drops the API client. Safe before Connect and repeatedly.
func (c *Connector) Disconnect() error {
	c.client = nil
	return nil
}

// mapItem converts a Zoho item to the canonical record. The rate field is
// used for both MRP and selling price.
func mapItem(item Item) domain.ProductRecord {
	active := item.Status == "active"
	return domain.ProductRecord{
		ExternalID:   item.ItemID,
		Name:         item.Name,
		MRP:          item.Rate,
		SellingPrice: item.Rate,
		Quantity:     int(item.StockOnHand),
		SKU:          item.SKU,
		Barcode:      item.EAN,
		TaxRate:      item.TaxPercentage,
		IsActive:     &active,
	}
}
