package operations

// Config represents the operation execution configuration
type Config struct {
	// ContinueOnError keeps running later steps after a failure. Steps whose
	// inputs were not produced are still skipped.
	ContinueOnError bool `json:"continue_on_error"`

	// ManifestPath receives the run manifest; empty disables it
	ManifestPath string `json:"manifest_path"`
}

// NewConfig returns the default operation configuration
func NewConfig() *Config {
	return &Config{
		ContinueOnError: false,
	}
}

// ConfigBuilder provides a fluent interface for building configurations
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder creates a new configuration builder
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: NewConfig(),
	}
}

// WithContinueOnError sets whether to continue on errors
func (b *ConfigBuilder) WithContinueOnError(continueOnError bool) *ConfigBuilder {
	b.config.ContinueOnError = continueOnError
	return b
}

// WithManifestPath sets where the run manifest is written
func (b *ConfigBuilder) WithManifestPath(path string) *ConfigBuilder {
	b.config.ManifestPath = path
	return b
}

// Build returns the built configuration
func (b *ConfigBuilder) Build() *Config {
	return b.config
}
