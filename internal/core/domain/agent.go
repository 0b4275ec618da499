package domain

// AgentIdentity is the credential pair issued at registration. It is
// created once during setup, persisted locally, loaded at every process
// start and held immutable for the process lifetime. Rotating it means
// re-running setup.
type AgentIdentity struct {
	// AgentID is the server-assigned identifier for this agent.
	AgentID string `json:"agentId"`

	// AgentKey is the opaque bearer credential sent on every call.
	AgentKey string `json:"agentKey"`

	// ServerURL is the base URL of the central server.
	ServerURL string `json:"serverUrl"`
}
