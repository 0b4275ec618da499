package zohobooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

const (
	// DefaultBaseURL is the public Zoho Books API endpoint.
	DefaultBaseURL = "https://www.zohoapis.com/books/v3"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// pageSize is the number of items requested per page.
	pageSize = 200
)

// Client is a thin authenticated wrapper over the Zoho Books REST API.
// Zoho allows roughly 100 requests per minute per organization, so every
// call waits on a shared rate limiter.
type Client struct {
	baseURL string
	orgID   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client holding the currently configured access
// token. The token source is the refresh extension point: swapping the
// static source for a refreshing oauth2.TokenSource is all a future
// refresh flow needs.
func NewClient(cfg *domain.ZohoConfig) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.AccessToken,
		TokenType:   "Zoho-oauthtoken",
	})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = DefaultTimeout

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		baseURL: base,
		orgID:   cfg.OrganizationID,
		http:    hc,
		limiter: rate.NewLimiter(rate.Every(700*time.Millisecond), 5),
	}
}

// Item is a Zoho Books item in the fields the agent consumes. The rate
// field serves as both MRP and selling price because Zoho Books has no
// separate MRP concept.
type Item struct {
	ItemID        string  `json:"item_id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	EAN           string  `json:"ean"`
	Rate          float64 `json:"rate"`
	StockOnHand   float64 `json:"stock_on_hand"`
	TaxPercentage float64 `json:"tax_percentage"`
	Status        string  `json:"status"`
}

// itemsResponse is the envelope of GET /items.
type itemsResponse struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Items       []Item `json:"items"`
	PageContext struct {
		HasMorePage bool `json:"has_more_page"`
	} `json:"page_context"`
}

// CheckAuth performs a lightweight authenticated call to verify the token
// and organization.
func (c *Client) CheckAuth(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/organizations", nil, nil, nil)
}

// ListItems fetches one page of items. Pages start at 1.
func (c *Client) ListItems(ctx context.Context, page int) ([]Item, bool, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))

	var resp itemsResponse
	if err := c.do(ctx, http.MethodGet, "/items", q, nil, &resp); err != nil {
		return nil, false, err
	}
	return resp.Items, resp.PageContext.HasMorePage, nil
}

// FindItemBySKU looks up an item by exact SKU. Returns domain.ErrNotFound
// when no item carries the SKU.
func (c *Client) FindItemBySKU(ctx context.Context, sku string) (*Item, error) {
	q := url.Values{}
	q.Set("sku", sku)

	var resp itemsResponse
	if err := c.do(ctx, http.MethodGet, "/items", q, nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Items {
		if resp.Items[i].SKU == sku {
			return &resp.Items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no item with sku %q", domain.ErrNotFound, sku)
}

// UpdateItemStock sets the absolute stock level of an item.
func (c *Client) UpdateItemStock(ctx context.Context, itemID string, quantity int) error {
	body := map[string]any{"stock_on_hand": quantity}
	return c.do(ctx, http.MethodPut, "/items/"+itemID, nil, body, nil)
}

// do executes one API call with rate limiting and typed error mapping.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("organization_id", c.orgID)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: zoho books returned %d", domain.ErrAuthInvalid, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: zoho books returned 429", domain.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("zoho books %s %s: status %d: %s", method, path, resp.StatusCode, apiMessage(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode zoho response: %w", err)
		}
	}
	return nil
}

// apiMessage extracts the error message from a Zoho envelope, falling
// back to the raw body.
func apiMessage(data []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}
