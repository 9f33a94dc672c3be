package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Oracle.Provider != ProviderOllama {
		t.Errorf("expected default provider %q, got %q", ProviderOllama, cfg.Oracle.Provider)
	}
	if cfg.Oracle.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("expected default embedding model %q, got %q", "nomic-embed-text", cfg.Oracle.EmbeddingModel)
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("expected default port 8480, got %d", cfg.Server.Port)
	}
	if cfg.Oracle.TimeoutSeconds != 8 {
		t.Errorf("expected default oracle timeout 8s, got %d", cfg.Oracle.TimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEmbeddingDefaults(t *testing.T) {
	model, dims := EmbeddingDefaults(ProviderOllama)
	if model != "nomic-embed-text" || dims != 768 {
		t.Errorf("ollama defaults: got (%q, %d), want (nomic-embed-text, 768)", model, dims)
	}
	model, dims = EmbeddingDefaults(ProviderOpenAI)
	if model != "text-embedding-3-small" || dims != 1536 {
		t.Errorf("openai defaults: got (%q, %d)", model, dims)
	}
	// Unknown providers fall back to the ollama defaults.
	_, dims = EmbeddingDefaults(ProviderType("bogus"))
	if dims != 768 {
		t.Errorf("fallback dims: got %d, want 768", dims)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.legajo.yml")

	original := DefaultConfig()
	original.Oracle.Provider = ProviderOpenAI
	original.Oracle.EmbeddingModel = "text-embedding-3-small"
	original.Oracle.ExtractionModel = "gpt-4o-mini"
	original.Server.Port = 9000
	original.DataDir = "archive-data"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Oracle.Provider != original.Oracle.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Oracle.Provider, original.Oracle.Provider)
	}
	if loaded.Oracle.EmbeddingModel != original.Oracle.EmbeddingModel {
		t.Errorf("embedding_model: got %q, want %q", loaded.Oracle.EmbeddingModel, original.Oracle.EmbeddingModel)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if cfg.Oracle.Provider != ProviderOllama {
		t.Errorf("expected defaults for missing file, got provider %q", cfg.Oracle.Provider)
	}
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	t.Setenv("LEGAJO_ORACLE_PROVIDER", "openai")
	t.Setenv("LEGAJO_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Oracle.Provider != ProviderOpenAI {
		t.Errorf("env override: got provider %q, want %q", cfg.Oracle.Provider, ProviderOpenAI)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("env override: got log level %q, want debug", cfg.Log.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"unknown provider", func(c *Config) { c.Oracle.Provider = "cohere" }},
		{"empty embedding model", func(c *Config) { c.Oracle.EmbeddingModel = "" }},
		{"zero timeout", func(c *Config) { c.Oracle.TimeoutSeconds = 0 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
