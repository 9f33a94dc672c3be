package config

// embeddingDefaults maps each provider to its default embedding model and
// the dimensionality that model produces.
var embeddingDefaults = map[ProviderType]struct {
	Model      string
	Dimensions int
}{
	ProviderOllama: {Model: "nomic-embed-text", Dimensions: 768},
	ProviderOpenAI: {Model: "text-embedding-3-small", Dimensions: 1536},
	ProviderGoogle: {Model: "text-embedding-004", Dimensions: 768},
}

// extractionDefaults maps each provider to its default extraction model.
var extractionDefaults = map[ProviderType]string{
	ProviderOllama: "llama3",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGoogle: "gemini-3-flash-preview",
}

// DefaultConfig returns a Config with sensible defaults. The default oracle
// is a local ollama instance with nomic-embed-text (768-dimensional vectors).
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".legajo",
		Server: ServerConfig{
			Port:     8480,
			AllowAll: false,
		},
		Oracle: OracleConfig{
			Provider:        ProviderOllama,
			ExtractionModel: extractionDefaults[ProviderOllama],
			EmbeddingModel:  embeddingDefaults[ProviderOllama].Model,
			BaseURL:         "http://localhost:11434",
			TimeoutSeconds:  8,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// EmbeddingDefaults returns the default embedding model and dimensions for
// the given provider, falling back to the ollama defaults.
func EmbeddingDefaults(provider ProviderType) (model string, dims int) {
	if d, ok := embeddingDefaults[provider]; ok {
		return d.Model, d.Dimensions
	}
	d := embeddingDefaults[ProviderOllama]
	return d.Model, d.Dimensions
}
