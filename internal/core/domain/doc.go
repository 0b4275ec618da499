// Package domain defines the core business entities for the SmartSync agent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProductRecord: The canonical product form every connector produces
//   - StockChange: An incremental quantity delta for incremental sync
//   - RemoteCommand: A unit of work pulled from the central server
//   - AgentConfig: The persisted configuration tagged union
//   - AgentIdentity: The registration credential pair
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
