package zohobooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// newTestServer runs a fake Zoho Books API and returns a connected
// connector pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(&domain.ZohoConfig{
		OrganizationID: "org-1",
		AccessToken:    "tok-1",
		BaseURL:        srv.URL,
	})
	require.NoError(t, c.Connect(context.Background()))
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// TestConnector_Type tests the kind tag
func TestConnector_Type(t *testing.T) {
	c := New(&domain.ZohoConfig{})
	assert.Equal(t, domain.KindZohoBooks, c.Type())
}

// TestConnector_Connect_InvalidConfig tests fail-fast validation
func TestConnector_Connect_InvalidConfig(t *testing.T) {
	c := New(&domain.ZohoConfig{OrganizationID: "org-1"})
	assert.ErrorIs(t, c.Connect(context.Background()), domain.ErrInvalidConfig)
}

// TestConnector_TestConnection tests the authenticated connectivity check
func TestConnector_TestConnection(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations", r.URL.Path)
		assert.Equal(t, "org-1", r.URL.Query().Get("organization_id"))
		assert.Equal(t, "Zoho-oauthtoken tok-1", r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"code": 0})
	})

	assert.True(t, c.TestConnection(context.Background()))
}

// TestConnector_TestConnection_BadToken tests false on auth rejection
func TestConnector_TestConnection_BadToken(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	assert.False(t, c.TestConnection(context.Background()))
}

// TestConnector_FetchProducts_Paginates tests multi-page listing
func TestConnector_FetchProducts_Paginates(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items", r.URL.Path)
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, map[string]any{
				"items": []map[string]any{
					{"item_id": "i1", "name": "Rice", "sku": "RICE-5KG", "rate": 499.0, "stock_on_hand": 12.0, "status": "active"},
					{"item_id": "i2", "name": "No SKU", "rate": 10.0},
				},
				"page_context": map[string]any{"has_more_page": true},
			})
		case "2":
			writeJSON(w, map[string]any{
				"items": []map[string]any{
					{"item_id": "i3", "name": "Milk", "sku": "MILK-1L", "rate": 72.0, "stock_on_hand": 0.0, "status": "inactive"},
				},
				"page_context": map[string]any{"has_more_page": false},
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "RICE-5KG", products[0].SKU)
	assert.Equal(t, 499.0, products[0].MRP)
	assert.Equal(t, 499.0, products[0].SellingPrice)
	assert.Equal(t, 12, products[0].Quantity)
	require.NotNil(t, products[0].IsActive)
	assert.True(t, *products[0].IsActive)

	assert.Equal(t, "MILK-1L", products[1].SKU)
	require.NotNil(t, products[1].IsActive)
	assert.False(t, *products[1].IsActive)
}

// TestConnector_FetchProducts_BeforeConnect tests the not-connected guard
func TestConnector_FetchProducts_BeforeConnect(t *testing.T) {
	c := New(&domain.ZohoConfig{OrganizationID: "org-1", AccessToken: "tok"})
	_, err := c.FetchProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

// TestConnector_FetchProducts_AuthError tests typed auth failure
func TestConnector_FetchProducts_AuthError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.FetchProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

// TestConnector_ApplyStockUpdate tests the lookup-then-write flow
func TestConnector_ApplyStockUpdate(t *testing.T) {
	var gotBody map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/items":
			assert.Equal(t, "ABC123", r.URL.Query().Get("sku"))
			writeJSON(w, map[string]any{
				"items": []map[string]any{
					{"item_id": "i9", "sku": "ABC123", "rate": 5.0},
				},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/items/i9":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			writeJSON(w, map[string]any{"code": 0})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	assert.True(t, c.ApplyStockUpdate(context.Background(), "ABC123", 25))
	assert.Equal(t, 25.0, gotBody["stock_on_hand"])
}

// TestConnector_ApplyStockUpdate_UnknownSKU tests failure on lookup miss
func TestConnector_ApplyStockUpdate_UnknownSKU(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"items": []map[string]any{}})
	})

	assert.False(t, c.ApplyStockUpdate(context.Background(), "GONE", 5))
}

// TestConnector_FetchStockChanges_Empty tests the full-sync-only contract
func TestConnector_FetchStockChanges_Empty(t *testing.T) {
	c := New(&domain.ZohoConfig{})
	changes, err := c.FetchStockChanges(context.Background(), time.Now())
	assert.NoError(t, err)
	assert.Empty(t, changes)
}

// TestConnector_Disconnect_Idempotent tests disconnect before and after connect
func TestConnector_Disconnect_Idempotent(t *testing.T) {
	c := New(&domain.ZohoConfig{OrganizationID: "org-1", AccessToken: "tok"})
	assert.NoError(t, c.Disconnect())
	require.NoError(t, c.Connect(context.Background()))
	assert.NoError(t, c.Disconnect())
	assert.NoError(t, c.Disconnect())
}

// TestClient_RateLimitMapped tests the 429 to typed error mapping
func TestClient_RateLimitMapped(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := c.client.ListItems(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}
