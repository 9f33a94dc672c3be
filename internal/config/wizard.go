package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .legajo.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to legajo! Let's configure your archive.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Oracle provider.
	providerPrompt := promptui.Select{
		Label: "Select AI oracle provider",
		Items: []string{
			"ollama (local, nomic-embed-text)",
			"openai (hosted, text-embedding-3-small)",
			"google (hosted, text-embedding-004)",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	providers := []ProviderType{ProviderOllama, ProviderOpenAI, ProviderGoogle}
	cfg.Oracle.Provider = providers[providerIdx]
	cfg.Oracle.EmbeddingModel, _ = EmbeddingDefaults(cfg.Oracle.Provider)
	cfg.Oracle.ExtractionModel = extractionDefaults[cfg.Oracle.Provider]

	if cfg.Oracle.Provider == ProviderOllama {
		urlPrompt := promptui.Prompt{
			Label:   "Ollama base URL",
			Default: cfg.Oracle.BaseURL,
		}
		baseURL, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("base URL: %w", err)
		}
		cfg.Oracle.BaseURL = baseURL
	} else {
		cfg.Oracle.BaseURL = ""
	}

	// 2. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(".legajo.yml"); err != nil {
		return nil, err
	}
	fmt.Println("\nConfiguration written to .legajo.yml")

	if cfg.Oracle.Provider != ProviderOllama {
		fmt.Println("Remember to export the provider API key (OPENAI_API_KEY / GOOGLE_API_KEY).")
	}

	return cfg, nil
}
