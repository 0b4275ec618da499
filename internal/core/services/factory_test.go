package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// TestConnectorFactory_Create tests variant-to-connector dispatch
func TestConnectorFactory_Create(t *testing.T) {
	f := NewConnectorFactory()

	tests := []struct {
		name string
		cfg  domain.AgentConfig
		want domain.ConnectorKind
	}{
		{
			name: "local db",
			cfg: domain.AgentConfig{
				ConnectorType: domain.KindLocalDB,
				DB:            &domain.DBConfig{Dialect: domain.DialectMySQL},
			},
			want: domain.KindLocalDB,
		},
		{
			name: "csv",
			cfg: domain.AgentConfig{
				ConnectorType: domain.KindCSV,
				File:          &domain.FileConfig{FolderPath: "/tmp"},
			},
			want: domain.KindCSV,
		},
		{
			name: "zoho books",
			cfg: domain.AgentConfig{
				ConnectorType: domain.KindZohoBooks,
				Zoho:          &domain.ZohoConfig{OrganizationID: "org-1", AccessToken: "tok"},
			},
			want: domain.KindZohoBooks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector, err := f.Create(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, connector.Type())
		})
	}
}

// TestConnectorFactory_Create_UnknownKind tests fail-fast on unknown tags
func TestConnectorFactory_Create_UnknownKind(t *testing.T) {
	f := NewConnectorFactory()
	_, err := f.Create(&domain.AgentConfig{ConnectorType: "SHOPIFY"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

// TestConnectorFactory_Create_MissingVariant tests tag/variant mismatch
func TestConnectorFactory_Create_MissingVariant(t *testing.T) {
	f := NewConnectorFactory()
	_, err := f.Create(&domain.AgentConfig{ConnectorType: domain.KindLocalDB})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

// TestConnectorFactory_SupportedKinds tests factory/registry agreement
func TestConnectorFactory_SupportedKinds(t *testing.T) {
	f := NewConnectorFactory()
	assert.Equal(t, domain.Kinds(), f.SupportedKinds())
}

// TestConnectorRegistry_List tests registry completeness and order
func TestConnectorRegistry_List(t *testing.T) {
	r := NewConnectorRegistry()
	types := r.List()
	require.Len(t, types, 3)
	assert.Equal(t, domain.KindLocalDB, types[0].Kind)
	assert.Equal(t, domain.KindCSV, types[1].Kind)
	assert.Equal(t, domain.KindZohoBooks, types[2].Kind)
}

// TestConnectorRegistry_Get tests lookup by kind
func TestConnectorRegistry_Get(t *testing.T) {
	r := NewConnectorRegistry()

	zoho, err := r.Get(domain.KindZohoBooks)
	require.NoError(t, err)
	assert.True(t, zoho.RequiresAuth)

	_, err = r.Get("SHOPIFY")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

// TestConnectorRegistry_MappingKeys tests the mandatory mapping prompts
func TestConnectorRegistry_MappingKeys(t *testing.T) {
	r := NewConnectorRegistry()
	keys := r.MappingKeys()

	required := map[string]bool{}
	for _, k := range keys {
		if k.Required {
			required[k.Key] = true
		}
	}
	assert.Equal(t, map[string]bool{"sku": true, "sellingPrice": true}, required)
}

// TestConnectorRegistry_SecretKeys tests that credentials prompt as secrets
func TestConnectorRegistry_SecretKeys(t *testing.T) {
	r := NewConnectorRegistry()

	db, err := r.Get(domain.KindLocalDB)
	require.NoError(t, err)
	for _, k := range db.ConfigKeys {
		if k.Key == "password" {
			assert.True(t, k.Secret)
		}
	}

	zoho, err := r.Get(domain.KindZohoBooks)
	require.NoError(t, err)
	for _, k := range zoho.ConfigKeys {
		if k.Key == "accessToken" {
			assert.True(t, k.Secret)
		}
	}
}
