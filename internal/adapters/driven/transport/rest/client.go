// Package rest is the HTTP implementation of the ServerTransport port.
//
// The client performs no retries: retry policy belongs to the caller (the
// sync engine retries uploads, the scheduler simply waits for the next
// cycle). Every non-2xx response surfaces as an *HTTPError so callers can
// branch on status without parsing messages.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
)

// Ensure Client implements the port.
var _ driven.ServerTransport = (*Client)(nil)

const (
	// basePath is the server's agent API prefix.
	basePath = "/api/smartsync"

	// agentKeyHeader carries the persisted agent credential.
	agentKeyHeader = "x-agent-key"

	// defaultTimeout bounds each request.
	defaultTimeout = 30 * time.Second
)

// HTTPError is a non-2xx server response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps auth failures onto the domain sentinel so callers can use
// errors.Is without knowing transport internals.
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return domain.ErrAuthInvalid
	}
	return nil
}

// Client calls the central server with a single shared identity credential.
type Client struct {
	baseURL  string
	agentKey string
	http     *http.Client
}

// NewClient creates a transport client for the given server and agent key.
// The agent key may be empty for a client only used to Register.
func NewClient(serverURL, agentKey string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(serverURL, "/"),
		agentKey: agentKey,
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

// Register performs the one-time bootstrap call with the retailer token.
func (c *Client) Register(ctx context.Context, retailerToken, agentName string) (*domain.AgentIdentity, error) {
	body := map[string]string{"agentName": agentName}
	var resp struct {
		AgentID  string `json:"agentId"`
		AgentKey string `json:"agentKey"`
	}
	auth := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+retailerToken)
	}
	if err := c.post(ctx, "/agents/register", auth, body, &resp); err != nil {
		return nil, fmt.Errorf("register agent: %w", err)
	}
	if resp.AgentKey == "" {
		return nil, fmt.Errorf("register agent: server issued no agent key")
	}
	return &domain.AgentIdentity{
		AgentID:   resp.AgentID,
		AgentKey:  resp.AgentKey,
		ServerURL: c.baseURL,
	}, nil
}

// Heartbeat signals liveness.
func (c *Client) Heartbeat(ctx context.Context) error {
	if err := c.post(ctx, "/agents/heartbeat", c.agentAuth, struct{}{}, nil); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

// UploadInventory posts the full canonical product snapshot.
func (c *Client) UploadInventory(ctx context.Context, products []domain.ProductRecord) error {
	if products == nil {
		products = []domain.ProductRecord{}
	}
	body := map[string]any{"products": products}
	if err := c.post(ctx, "/inventory/upload", c.agentAuth, body, nil); err != nil {
		return fmt.Errorf("upload inventory: %w", err)
	}
	return nil
}

// PullCommands returns the pending commands for this agent.
func (c *Client) PullCommands(ctx context.Context) ([]domain.RemoteCommand, error) {
	var resp struct {
		Commands []domain.RemoteCommand `json:"commands"`
	}
	if err := c.post(ctx, "/commands/pull", c.agentAuth, struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("pull commands: %w", err)
	}
	return resp.Commands, nil
}

// AckCommand reports the terminal outcome of one command.
func (c *Client) AckCommand(ctx context.Context, commandID string, status domain.CommandStatus, message string) error {
	body := map[string]any{
		"commandId": commandID,
		"status":    status,
		"message":   message,
	}
	if err := c.post(ctx, "/commands/ack", c.agentAuth, body, nil); err != nil {
		return fmt.Errorf("ack command %s: %w", commandID, err)
	}
	return nil
}

func (c *Client) agentAuth(req *http.Request) {
	req.Header.Set(agentKeyHeader, c.agentKey)
}

// post sends one JSON request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, auth func(*http.Request), in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+basePath+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
