// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: Fetches canonical product records from a data source
//   - ConnectorFactory: Creates connectors from configuration
//   - ServerTransport: Outbound calls to the central server
//   - ConfigStore: Persisted agent configuration
//
// # Optional Interfaces
//
//   - AgentStore: Task state and run history. Can be nil; the scheduler
//     then keeps timing in memory only.
//   - Watcher: Real-time source change signals for connectors that can.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
