package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driving"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// Ensure CommandPoller implements the interface.
var _ driving.CommandPoller = (*CommandPoller)(nil)

// CommandPoller pulls pending remote commands, dispatches each on its
// action tag to the connector, and acknowledges each exactly once.
// Command execution never persists anything locally; every poll cycle is
// stateless with respect to command history.
type CommandPoller struct {
	connector driven.Connector
	transport driven.ServerTransport
}

// NewCommandPoller creates a poller for one connector and transport.
func NewCommandPoller(connector driven.Connector, transport driven.ServerTransport) *CommandPoller {
	return &CommandPoller{
		connector: connector,
		transport: transport,
	}
}

// Poll runs one cycle. Every pulled command gets exactly one ack, with
// status FAILED when the action fails; the server retries delivery until
// acked, so a missing ack would duplicate side effects.
func (p *CommandPoller) Poll(ctx context.Context) (int, error) {
	commands, err := p.transport.PullCommands(ctx)
	if err != nil {
		return 0, fmt.Errorf("pull commands: %w", err)
	}

	for _, cmd := range commands {
		status, message := p.execute(ctx, cmd)
		logger.Info("command handled", "command", cmd.ID, "action", cmd.Action, "status", status)

		if err := p.transport.AckCommand(ctx, cmd.ID, status, message); err != nil {
			// The ack is attempted once; a lost ack is the server's
			// redelivery problem, not grounds for a duplicate action.
			logger.Error("command ack failed", "command", cmd.ID, "err", err)
		}
	}
	return len(commands), nil
}

// execute dispatches one command and converts every failure into a
// FAILED status with a message instead of an error.
func (p *CommandPoller) execute(ctx context.Context, cmd domain.RemoteCommand) (domain.CommandStatus, string) {
	switch cmd.Action {
	case domain.ActionUpdateStock:
		var payload domain.StockUpdatePayload
		if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
			return domain.StatusFailed, fmt.Sprintf("invalid payload: %v", err)
		}
		if payload.SKU == "" {
			return domain.StatusFailed, "payload has no sku"
		}
		if !p.connector.ApplyStockUpdate(ctx, payload.SKU, payload.Quantity) {
			return domain.StatusFailed, fmt.Sprintf("stock update failed for sku %s", payload.SKU)
		}
		return domain.StatusCompleted, fmt.Sprintf("stock set to %d for sku %s", payload.Quantity, payload.SKU)

	case domain.ActionTestConnection:
		if !p.connector.TestConnection(ctx) {
			return domain.StatusFailed, "source unreachable"
		}
		return domain.StatusCompleted, "source reachable"

	case domain.ActionPing:
		return domain.StatusCompleted, "pong"

	default:
		return domain.StatusFailed, fmt.Sprintf("unknown action %q", cmd.Action)
	}
}
