package services

import (
	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// ConnectorRegistry provides information about available connector kinds.
// The interactive setup flow renders each kind's ConfigKeys as prompts.
type ConnectorRegistry struct {
	types map[domain.ConnectorKind]domain.ConnectorType
}

// NewConnectorRegistry creates a registry with the built-in connectors.
func NewConnectorRegistry() *ConnectorRegistry {
	r := &ConnectorRegistry{
		types: make(map[domain.ConnectorKind]domain.ConnectorType),
	}
	r.registerLocalDB()
	r.registerCSV()
	r.registerZohoBooks()
	return r
}

func (r *ConnectorRegistry) registerLocalDB() {
	r.types[domain.KindLocalDB] = domain.ConnectorType{
		Kind:         domain.KindLocalDB,
		Name:         "Local Database",
		Description:  "Sync inventory from a local billing database (MySQL or SQL Server)",
		RequiresAuth: true,
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         "type",
				Label:       "Database Type",
				Description: "mysql or sqlserver",
				Default:     "mysql",
				Required:    true,
			},
			{
				Key:      "host",
				Label:    "Host",
				Required: true,
			},
			{
				Key:         "port",
				Label:       "Port",
				Description: "Empty uses the dialect default (3306/1433)",
			},
			{
				Key:      "user",
				Label:    "User",
				Required: true,
			},
			{
				Key:    "password",
				Label:  "Password",
				Secret: true,
			},
			{
				Key:      "database",
				Label:    "Database Name",
				Required: true,
			},
			{
				Key:         "productQuery",
				Label:       "Product Query",
				Description: "SELECT returning one row per product",
				Required:    true,
			},
			{
				Key:         "stockUpdateQuery",
				Label:       "Stock Update Query",
				Description: "Parameterized UPDATE taking quantity then SKU (optional)",
			},
		},
	}
}

func (r *ConnectorRegistry) registerCSV() {
	r.types[domain.KindCSV] = domain.ConnectorType{
		Kind:        domain.KindCSV,
		Name:        "CSV / Spreadsheet Folder",
		Description: "Sync inventory from exported CSV or Excel files",
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         "filePath",
				Label:       "File Path",
				Description: "Single export file (leave empty to watch a folder)",
			},
			{
				Key:         "folderPath",
				Label:       "Folder Path",
				Description: "Folder to watch; the newest export is used each cycle",
			},
		},
	}
}

func (r *ConnectorRegistry) registerZohoBooks() {
	r.types[domain.KindZohoBooks] = domain.ConnectorType{
		Kind:         domain.KindZohoBooks,
		Name:         "Zoho Books",
		Description:  "Sync inventory items from a Zoho Books organization",
		RequiresAuth: true,
		ConfigKeys: []domain.ConfigKey{
			{
				Key:      "organizationId",
				Label:    "Organization ID",
				Required: true,
			},
			{
				Key:      "accessToken",
				Label:    "Access Token",
				Required: true,
				Secret:   true,
			},
		},
	}
}

// List returns all connector types in a stable order.
func (r *ConnectorRegistry) List() []domain.ConnectorType {
	result := make([]domain.ConnectorType, 0, len(r.types))
	for _, kind := range domain.Kinds() {
		if t, ok := r.types[kind]; ok {
			result = append(result, t)
		}
	}
	return result
}

// Get returns a specific connector type by kind.
func (r *ConnectorRegistry) Get(kind domain.ConnectorKind) (*domain.ConnectorType, error) {
	t, ok := r.types[kind]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return &t, nil
}

// MappingKeys returns the field-mapping prompts shared by the database
// and flat-file kinds (the API kind maps fixed response fields instead).
func (r *ConnectorRegistry) MappingKeys() []domain.ConfigKey {
	return []domain.ConfigKey{
		{Key: "sku", Label: "SKU Column", Required: true},
		{Key: "sellingPrice", Label: "Selling Price Column", Required: true},
		{Key: "quantity", Label: "Quantity Column"},
		{Key: "name", Label: "Name Column"},
		{Key: "mrp", Label: "MRP Column"},
		{Key: "externalId", Label: "Product ID Column"},
		{Key: "barcode", Label: "Barcode Column"},
		{Key: "taxRate", Label: "Tax Rate Column"},
		{Key: "isActive", Label: "Active Flag Column"},
	}
}
