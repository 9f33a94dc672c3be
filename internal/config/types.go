package config

// ProviderType identifies an AI oracle provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGoogle ProviderType = "google"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level legajo configuration, corresponding to .legajo.yml.
type Config struct {
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	Server ServerConfig `yaml:"server" koanf:"server"`
	Oracle OracleConfig `yaml:"oracle" koanf:"oracle"`
	Log    LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_cors" koanf:"allow_all_cors"`
}

// OracleConfig holds settings for the external AI extraction and embedding
// oracles. API keys are read from the environment (OPENAI_API_KEY,
// GOOGLE_API_KEY), never from the config file.
type OracleConfig struct {
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	ExtractionModel string       `yaml:"extraction_model" koanf:"extraction_model"`
	EmbeddingModel  string       `yaml:"embedding_model" koanf:"embedding_model"`
	BaseURL         string       `yaml:"base_url" koanf:"base_url"`
	TimeoutSeconds  int          `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Pretty bool   `yaml:"pretty" koanf:"pretty"`
}
