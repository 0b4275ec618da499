package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

func stockCommand(id, sku string, quantity int) domain.RemoteCommand {
	payload, _ := json.Marshal(domain.StockUpdatePayload{SKU: sku, Quantity: quantity})
	return domain.RemoteCommand{ID: id, Action: domain.ActionUpdateStock, Payload: payload}
}

// TestCommandPoller_Poll_NoCommands tests the idle cycle
func TestCommandPoller_Poll_NoCommands(t *testing.T) {
	transport := &mockTransport{}
	p := NewCommandPoller(&mockConnector{}, transport)

	count, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, transport.acks)
}

// TestCommandPoller_Poll_PullFailure tests that a failed pull acks nothing
func TestCommandPoller_Poll_PullFailure(t *testing.T) {
	transport := &mockTransport{pullErr: errors.New("server down")}
	p := NewCommandPoller(&mockConnector{}, transport)

	_, err := p.Poll(context.Background())
	require.Error(t, err)
	assert.Empty(t, transport.acks)
}

// TestCommandPoller_UpdateStock tests the stock-update dispatch
func TestCommandPoller_UpdateStock(t *testing.T) {
	connector := &mockConnector{applyOK: true}
	transport := &mockTransport{commands: []domain.RemoteCommand{
		stockCommand("cmd-1", "ABC123", 25),
	}}
	p := NewCommandPoller(connector, transport)

	count, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"ABC123"}, connector.applied)

	require.Len(t, transport.acks, 1)
	assert.Equal(t, "cmd-1", transport.acks[0].CommandID)
	assert.Equal(t, domain.StatusCompleted, transport.acks[0].Status)
}

// TestCommandPoller_UpdateStock_Failure tests FAILED ack on connector refusal
func TestCommandPoller_UpdateStock_Failure(t *testing.T) {
	connector := &mockConnector{applyOK: false}
	transport := &mockTransport{commands: []domain.RemoteCommand{
		stockCommand("cmd-1", "GONE", 5),
	}}
	p := NewCommandPoller(connector, transport)

	_, err := p.Poll(context.Background())
	require.NoError(t, err)

	require.Len(t, transport.acks, 1)
	assert.Equal(t, domain.StatusFailed, transport.acks[0].Status)
	assert.Contains(t, transport.acks[0].Message, "GONE")
}

// TestCommandPoller_UpdateStock_BadPayload tests FAILED ack on junk payloads
func TestCommandPoller_UpdateStock_BadPayload(t *testing.T) {
	transport := &mockTransport{commands: []domain.RemoteCommand{
		{ID: "cmd-1", Action: domain.ActionUpdateStock, Payload: json.RawMessage(`{broken`)},
		{ID: "cmd-2", Action: domain.ActionUpdateStock, Payload: json.RawMessage(`{"quantity": 5}`)},
	}}
	p := NewCommandPoller(&mockConnector{applyOK: true}, transport)

	_, err := p.Poll(context.Background())
	require.NoError(t, err)

	require.Len(t, transport.acks, 2)
	assert.Equal(t, domain.StatusFailed, transport.acks[0].Status)
	assert.Equal(t, domain.StatusFailed, transport.acks[1].Status)
	assert.Contains(t, transport.acks[1].Message, "sku")
}

// TestCommandPoller_TestConnection tests the connection check command
func TestCommandPoller_TestConnection(t *testing.T) {
	transport := &mockTransport{commands: []domain.RemoteCommand{
		{ID: "cmd-1", Action: domain.ActionTestConnection},
	}}
	p := NewCommandPoller(&mockConnector{testOK: true}, transport)

	_, err := p.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, transport.acks, 1)
	assert.Equal(t, domain.StatusCompleted, transport.acks[0].Status)
}

// TestCommandPoller_Ping tests the liveness command
func TestCommandPoller_Ping(t *testing.T) {
	transport := &mockTransport{commands: []domain.RemoteCommand{
		{ID: "cmd-1", Action: domain.ActionPing},
	}}
	p := NewCommandPoller(&mockConnector{}, transport)

	_, err := p.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, transport.acks, 1)
	assert.Equal(t, domain.StatusCompleted, transport.acks[0].Status)
	assert.Equal(t, "pong", transport.acks[0].Message)
}

// TestCommandPoller_UnknownAction tests FAILED ack for unrecognised actions
func TestCommandPoller_UnknownAction(t *testing.T) {
	transport := &mockTransport{commands: []domain.RemoteCommand{
		{ID: "cmd-1", Action: "REBOOT"},
	}}
	p := NewCommandPoller(&mockConnector{}, transport)

	_, err := p.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, transport.acks, 1)
	assert.Equal(t, domain.StatusFailed, transport.acks[0].Status)
	assert.Contains(t, transport.acks[0].Message, "REBOOT")
}

// TestCommandPoller_ExactlyOneAckPerCommand tests ack accounting over a batch
func TestCommandPoller_ExactlyOneAckPerCommand(t *testing.T) {
	connector := &mockConnector{applyOK: true, testOK: false}
	transport := &mockTransport{commands: []domain.RemoteCommand{
		stockCommand("cmd-1", "A", 1),
		{ID: "cmd-2", Action: domain.ActionTestConnection},
		{ID: "cmd-3", Action: domain.ActionPing},
	}}
	p := NewCommandPoller(connector, transport)

	count, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.Len(t, transport.acks, 3)
	assert.Equal(t, "cmd-1", transport.acks[0].CommandID)
	assert.Equal(t, "cmd-2", transport.acks[1].CommandID)
	assert.Equal(t, "cmd-3", transport.acks[2].CommandID)
	assert.Equal(t, domain.StatusFailed, transport.acks[1].Status)
}

// TestCommandPoller_AckFailureDoesNotRepeat tests the single-ack rule
func TestCommandPoller_AckFailureDoesNotRepeat(t *testing.T) {
	connector := &mockConnector{applyOK: true}
	transport := &mockTransport{
		commands: []domain.RemoteCommand{stockCommand("cmd-1", "A", 1)},
		ackErr:   errors.New("server hiccup"),
	}
	p := NewCommandPoller(connector, transport)

	count, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, transport.acks, 1)
	assert.Len(t, connector.applied, 1)
}
