package domain

import "encoding/json"

// CommandStatus is the terminal outcome reported back to the server for a
// pulled command.
type CommandStatus string

const (
	// StatusCompleted indicates the command executed successfully.
	StatusCompleted CommandStatus = "COMPLETED"

	// StatusFailed indicates the command could not be executed.
	StatusFailed CommandStatus = "FAILED"
)

// Command actions the agent knows how to dispatch.
const (
	// ActionUpdateStock sets a new quantity for a SKU in the local source.
	ActionUpdateStock = "UPDATE_STOCK"

	// ActionTestConnection asks the agent to verify source connectivity.
	ActionTestConnection = "TEST_CONNECTION"

	// ActionPing is a no-op liveness check.
	ActionPing = "PING"
)

// RemoteCommand is a unit of work owned by the server, pulled by the agent,
// acted upon locally and acknowledged with a terminal status. The agent
// never persists commands; each poll cycle is stateless.
type RemoteCommand struct {
	// ID is the server-assigned command identifier, echoed in the ack.
	ID string `json:"commandId"`

	// Action selects the connector operation to perform.
	Action string `json:"action"`

	// Payload carries action-specific parameters.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StockUpdatePayload is the payload for ActionUpdateStock.
type StockUpdatePayload struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
