// Package connectors provides implementations of the Connector interface
// for each inventory source family. Each connector knows how to fetch
// product records from a specific source type (relational database,
// flat file, accounting API) and map them into the canonical form.
//
// Connectors are built by the connector factory at startup from the
// persisted configuration's tagged union.
package connectors
