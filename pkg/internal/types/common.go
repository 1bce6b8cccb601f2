package types

// ComponentMetadata defines the essential identifying information for components within the system.
// It is attached to every log line a component emits.
type ComponentMetadata struct {
	ID   string // Unique identifier for the component.
	Type string // Type of the component, e.g. "COMPRESSOR" or "API_SERVER".
	Name string // Human-readable name for the component.
}

// TLSConfig holds the configuration necessary for serving over TLS.
type TLSConfig struct {
	UseTLS                 bool
	CertFile               string
	KeyFile                string
	CAFile                 string
	SubjectAlternativeName string
	MinTLSVersion          uint16 // e.g., tls.VersionTLS12
	MaxTLSVersion          uint16 // e.g., tls.VersionTLS13
}

// Option defines a configuration option function applicable to any component T.
type Option[T any] func(T)
