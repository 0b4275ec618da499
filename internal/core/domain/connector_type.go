package domain

// ConnectorType describes a supported connector kind for display and for
// driving interactive setup.
type ConnectorType struct {
	// Kind is the configuration tag (e.g., LOCAL_DB).
	Kind ConnectorKind
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the connector.
	Description string
	// RequiresAuth indicates the source itself needs credentials.
	RequiresAuth bool
	// ConfigKeys lists the configuration fields collected during setup.
	ConfigKeys []ConfigKey
}

// ConfigKey describes a configuration field for a connector.
type ConfigKey struct {
	// Key is the configuration key name.
	Key string
	// Label is the human-readable label shown in prompts.
	Label string
	// Description explains what this field is for.
	Description string
	// Default is the value used when the input is left empty.
	Default string
	// Required indicates whether this field must be provided.
	Required bool
	// Secret indicates whether input should be masked (e.g., tokens).
	Secret bool
}
