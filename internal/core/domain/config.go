package domain

import (
	"encoding/json"
	"fmt"
)

// ConnectorKind tags the active connector variant in AgentConfig.
type ConnectorKind string

const (
	// KindLocalDB syncs from a local relational database.
	KindLocalDB ConnectorKind = "LOCAL_DB"

	// KindCSV syncs from a CSV/spreadsheet file or a watched folder.
	KindCSV ConnectorKind = "CSV"

	// KindZohoBooks syncs from the Zoho Books accounting API.
	KindZohoBooks ConnectorKind = "ZOHO_BOOKS"
)

// Kinds returns all supported connector kinds.
func Kinds() []ConnectorKind {
	return []ConnectorKind{KindLocalDB, KindCSV, KindZohoBooks}
}

// AgentConfig is the persisted agent configuration: the server identity
// plus a tagged union over connector kinds, with exactly one variant set.
// Required fields of the active variant are validated at connect time,
// not at load time, so a half-edited file still loads.
type AgentConfig struct {
	ServerURL     string
	AgentKey      string
	ConnectorType ConnectorKind

	// Exactly one of the following matches ConnectorType.
	DB   *DBConfig
	File *FileConfig
	Zoho *ZohoConfig
}

// DBDialect selects the SQL dialect branch of the relational connector.
type DBDialect string

const (
	DialectMySQL     DBDialect = "mysql"
	DialectSQLServer DBDialect = "sqlserver"
)

// DBConfig configures the relational database connector.
type DBConfig struct {
	Dialect  DBDialect `json:"type"`
	Host     string    `json:"host"`
	Port     int       `json:"port"`
	User     string    `json:"user"`
	Password string    `json:"password"`
	Database string    `json:"database"`

	// ProductQuery is the configured SELECT producing one row per product.
	ProductQuery string `json:"productQuery"`

	// StockUpdateQuery is a parameterized UPDATE taking quantity then SKU.
	StockUpdateQuery string `json:"stockUpdateQuery,omitempty"`

	// Mapping translates result-set columns to canonical fields.
	Mapping FieldMapping `json:"mapping"`
}

// Validate checks the fields the connector needs to open a connection.
func (c *DBConfig) Validate() error {
	switch c.Dialect {
	case DialectMySQL, DialectSQLServer:
	default:
		return fmt.Errorf("%w: unknown db dialect %q", ErrInvalidConfig, c.Dialect)
	}
	if c.Host == "" || c.User == "" || c.Database == "" {
		return fmt.Errorf("%w: db host, user and database are required", ErrInvalidConfig)
	}
	if c.ProductQuery == "" {
		return fmt.Errorf("%w: db product query is required", ErrInvalidConfig)
	}
	return c.Mapping.Validate()
}

// FileConfig configures the flat-file connector. Either FilePath names a
// single file, or FolderPath names a watched folder from which the
// most-recently-modified CSV/spreadsheet is selected at each fetch.
type FileConfig struct {
	FilePath   string       `json:"filePath,omitempty"`
	FolderPath string       `json:"folderPath,omitempty"`
	Mapping    FieldMapping `json:"mapping"`
}

// Validate checks that exactly one source mode is configured.
func (c *FileConfig) Validate() error {
	if c.FilePath == "" && c.FolderPath == "" {
		return fmt.Errorf("%w: file path or folder path is required", ErrInvalidConfig)
	}
	if c.FilePath != "" && c.FolderPath != "" {
		return fmt.Errorf("%w: file path and folder path are mutually exclusive", ErrInvalidConfig)
	}
	return c.Mapping.Validate()
}

// ZohoConfig configures the Zoho Books connector.
type ZohoConfig struct {
	OrganizationID string `json:"organizationId"`
	AccessToken    string `json:"accessToken"`

	// BaseURL overrides the Zoho Books API endpoint. Empty means the
	// public endpoint; tests point it at a local server.
	BaseURL string `json:"baseUrl,omitempty"`
}

// Validate checks the fields the connector needs to authenticate.
func (c *ZohoConfig) Validate() error {
	if c.OrganizationID == "" || c.AccessToken == "" {
		return fmt.Errorf("%w: zoho organization id and access token are required", ErrInvalidConfig)
	}
	return nil
}

// Validate checks that the tag names a known kind and the matching variant
// is present, then validates that variant's required fields.
func (c *AgentConfig) Validate() error {
	if c.ServerURL == "" || c.AgentKey == "" {
		return fmt.Errorf("%w: server url and agent key are required", ErrInvalidConfig)
	}
	switch c.ConnectorType {
	case KindLocalDB:
		if c.DB == nil {
			return fmt.Errorf("%w: missing db connector config", ErrInvalidConfig)
		}
		return c.DB.Validate()
	case KindCSV:
		if c.File == nil {
			return fmt.Errorf("%w: missing file connector config", ErrInvalidConfig)
		}
		return c.File.Validate()
	case KindZohoBooks:
		if c.Zoho == nil {
			return fmt.Errorf("%w: missing zoho connector config", ErrInvalidConfig)
		}
		return c.Zoho.Validate()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedType, c.ConnectorType)
	}
}

// configFile is the on-disk JSON shape: the variant object lives under a
// single connectorConfig key, discriminated by connectorType.
type configFile struct {
	ServerURL       string          `json:"serverUrl"`
	AgentKey        string          `json:"agentKey"`
	ConnectorType   ConnectorKind   `json:"connectorType"`
	ConnectorConfig json.RawMessage `json:"connectorConfig,omitempty"`
}

// MarshalJSON writes the external file format.
func (c AgentConfig) MarshalJSON() ([]byte, error) {
	out := configFile{
		ServerURL:     c.ServerURL,
		AgentKey:      c.AgentKey,
		ConnectorType: c.ConnectorType,
	}

	var variant any
	switch c.ConnectorType {
	case KindLocalDB:
		variant = c.DB
	case KindCSV:
		variant = c.File
	case KindZohoBooks:
		variant = c.Zoho
	}
	if variant != nil {
		raw, err := json.Marshal(variant)
		if err != nil {
			return nil, err
		}
		out.ConnectorConfig = raw
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads the external file format. An unknown connectorType is
// preserved so Validate can report it; the variant payload is then ignored.
func (c *AgentConfig) UnmarshalJSON(data []byte) error {
	var in configFile
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c.ServerURL = in.ServerURL
	c.AgentKey = in.AgentKey
	c.ConnectorType = in.ConnectorType
	c.DB, c.File, c.Zoho = nil, nil, nil

	if len(in.ConnectorConfig) == 0 {
		return nil
	}

	switch in.ConnectorType {
	case KindLocalDB:
		c.DB = &DBConfig{}
		return json.Unmarshal(in.ConnectorConfig, c.DB)
	case KindCSV:
		c.File = &FileConfig{}
		return json.Unmarshal(in.ConnectorConfig, c.File)
	case KindZohoBooks:
		c.Zoho = &ZohoConfig{}
		return json.Unmarshal(in.ConnectorConfig, c.Zoho)
	}
	return nil
}
