package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// envMap returns a lookup function backed by m.
func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default StagingDir is temp", func(t *testing.T) {
		t.Parallel()
		if cfg.StagingDir != "temp" {
			t.Errorf("expected StagingDir to be 'temp', got '%s'", cfg.StagingDir)
		}
	})

	t.Run("default Port is 10000", func(t *testing.T) {
		t.Parallel()
		if cfg.Port != 10000 {
			t.Errorf("expected Port to be 10000, got %d", cfg.Port)
		}
	})

	t.Run("catalog call timeout covers two requests", func(t *testing.T) {
		t.Parallel()
		if got := cfg.CatalogCallTimeout(); got != 20*time.Second {
			t.Errorf("expected 20s, got %v", got)
		}
		custom := NewConfig()
		custom.CatalogTimeout = 3 * time.Second
		if got := custom.CatalogCallTimeout(); got != 6*time.Second {
			t.Errorf("expected 6s, got %v", got)
		}
	})

	t.Run("default CatalogTimeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.CatalogTimeout != 10*time.Second {
			t.Errorf("expected CatalogTimeout to be 10s, got %v", cfg.CatalogTimeout)
		}
	})

	t.Run("poll timeout is shorter than transport timeout", func(t *testing.T) {
		t.Parallel()
		if cfg.PollTimeout >= cfg.TransportTimeout {
			t.Errorf("expected PollTimeout %v < TransportTimeout %v", cfg.PollTimeout, cfg.TransportTimeout)
		}
	})

	t.Run("default result limits are 5 and 10", func(t *testing.T) {
		t.Parallel()
		if cfg.ResultsPerCatalog != 5 {
			t.Errorf("expected ResultsPerCatalog to be 5, got %d", cfg.ResultsPerCatalog)
		}
		if cfg.MaxResults != 10 {
			t.Errorf("expected MaxResults to be 10, got %d", cfg.MaxResults)
		}
	})

	t.Run("default MaxPartSize fits the upload limit", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPartSize <= 0 || cfg.MaxPartSize > 50*1024*1024 {
			t.Errorf("unexpected MaxPartSize %d", cfg.MaxPartSize)
		}
	})

	t.Run("default config has no credentials", func(t *testing.T) {
		t.Parallel()
		if cfg.BotToken != "" || cfg.Kaggle.Username != "" || cfg.Kaggle.Key != "" || cfg.GitHub.Token != "" || cfg.HuggingFace.Token != "" {
			t.Error("expected no credentials by default")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := NewConfig().Validate(); err != nil {
			t.Errorf("expected nil error, got: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"blank staging dir", func(c *Config) { c.StagingDir = "  " }, ErrEmptyStagingDir},
		{"archive dir is staging dir", func(c *Config) { c.ArchiveDir = c.StagingDir }, ErrArchiveDirIsStaging},
		{"archive dir is staging dir spelled differently", func(c *Config) { c.ArchiveDir = "./" + c.StagingDir + "/" }, ErrArchiveDirIsStaging},
		{"staging dir is the default archive dir", func(c *Config) { c.StagingDir = os.TempDir() }, ErrArchiveDirIsStaging},
		{"zero catalog timeout", func(c *Config) { c.CatalogTimeout = 0 }, ErrInvalidTimeout},
		{"negative transport timeout", func(c *Config) { c.TransportTimeout = -time.Second }, ErrInvalidTimeout},
		{"poll timeout equal to transport", func(c *Config) { c.PollTimeout = c.TransportTimeout }, ErrInvalidPollTimeout},
		{"zero per catalog limit", func(c *Config) { c.ResultsPerCatalog = 0 }, ErrInvalidResultLimit},
		{"negative max results", func(c *Config) { c.MaxResults = -1 }, ErrInvalidResultLimit},
		{"port zero", func(c *Config) { c.Port = 0 }, ErrInvalidPort},
		{"port too large", func(c *Config) { c.Port = 70000 }, ErrInvalidPort},
		{"zero part size", func(c *Config) { c.MaxPartSize = 0 }, ErrInvalidPartSize},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigValidateServe verifies that the bot refuses to start without a token.
func TestConfigValidateServe(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		if err := NewConfig().ValidateServe(); !errors.Is(err, ErrMissingBotToken) {
			t.Errorf("expected ErrMissingBotToken, got %v", err)
		}
	})

	t.Run("token present", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.BotToken = "123456:abcdefghijklmnopqrstuvwxyz0123456789"
		if err := cfg.ValidateServe(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("token present but config invalid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.BotToken = "123456:abcdefghijklmnopqrstuvwxyz0123456789"
		cfg.Port = -1
		if err := cfg.ValidateServe(); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("expected ErrInvalidPort, got %v", err)
		}
	})
}

// TestApplyEnv tests that environment variables override defaults.
func TestApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("reads every variable", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := cfg.ApplyEnv(envMap(map[string]string{
			EnvBotToken:       "tok",
			EnvKaggleUsername: "alice",
			EnvKaggleKey:      "k",
			EnvHFToken:        "hf",
			EnvGitHubToken:    "gh",
			EnvPort:           "8080",
			EnvStagingDir:     "/srv/data",
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BotToken != "tok" || cfg.HuggingFace.Token != "hf" || cfg.GitHub.Token != "gh" {
			t.Errorf("tokens not applied: %+v", cfg)
		}
		if cfg.Kaggle.Username != "alice" || cfg.Kaggle.Key != "k" {
			t.Errorf("expected Kaggle credentials, got %+v", cfg.Kaggle)
		}
		if cfg.Port != 8080 {
			t.Errorf("expected port 8080, got %d", cfg.Port)
		}
		if cfg.StagingDir != "/srv/data" {
			t.Errorf("expected staging dir /srv/data, got %s", cfg.StagingDir)
		}
	})

	t.Run("blank values keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := cfg.ApplyEnv(envMap(map[string]string{EnvPort: " ", EnvBotToken: ""})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != DefaultPort {
			t.Errorf("expected default port, got %d", cfg.Port)
		}
	})

	t.Run("non numeric port", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := cfg.ApplyEnv(envMap(map[string]string{EnvPort: "http"}))
		if !errors.Is(err, ErrInvalidPort) {
			t.Errorf("expected ErrInvalidPort, got %v", err)
		}
	})

}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.datasetbot.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `bot_token: "123:abc"
staging_dir: /data/temp
catalog_timeout: 3s
results_per_catalog: 7
catalogs:
  kaggle:
    username: alice
    key: secret
  huggingface:
    base_url: http://hf.local
  github:
    token: ghp_x
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if file.CatalogTimeout != 3*time.Second {
			t.Errorf("expected 3s, got %v", file.CatalogTimeout)
		}
		if file.Catalogs.Kaggle.Username != "alice" {
			t.Errorf("expected kaggle username alice, got %q", file.Catalogs.Kaggle.Username)
		}

		cfg := NewConfig()
		cfg.ApplyFile(file)
		if cfg.BotToken != "123:abc" || cfg.StagingDir != "/data/temp" {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.ResultsPerCatalog != 7 {
			t.Errorf("expected 7 results per catalog, got %d", cfg.ResultsPerCatalog)
		}
		if cfg.HuggingFace.BaseURL != "http://hf.local" || cfg.GitHub.Token != "ghp_x" {
			t.Errorf("catalog values not applied: %+v", cfg)
		}
		if cfg.Port != DefaultPort {
			t.Errorf("unset port should keep default, got %d", cfg.Port)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestLoad tests precedence between file and environment.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("environment overrides file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "bot.yaml")
		if err := os.WriteFile(configPath, []byte("bot_token: from-file\nport: 9000\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := Load(configPath, envMap(map[string]string{EnvBotToken: "from-env"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BotToken != "from-env" {
			t.Errorf("expected env token, got %q", cfg.BotToken)
		}
		if cfg.Port != 9000 {
			t.Errorf("expected file port 9000, got %d", cfg.Port)
		}
		if cfg.ConfigFilePath != configPath {
			t.Errorf("expected ConfigFilePath %q, got %q", configPath, cfg.ConfigFilePath)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Load("/nonexistent/bot.yaml", envMap(nil))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("port: 1"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestEnsureStagingDir verifies the staging directory is created.
func TestEnsureStagingDir(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.StagingDir = filepath.Join(t.TempDir(), "nested", "temp")
	if err := cfg.EnsureStagingDir(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(cfg.StagingDir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected directory at %s", cfg.StagingDir)
	}

	// Idempotent.
	if err := cfg.EnsureStagingDir(); err != nil {
		t.Errorf("second call failed: %v", err)
	}
}

// TestXDGConfigDir tests the XDG config path.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected XDG config dir to end with %q, got %q", AppName, dir)
	}
}

// TestHealthAddr tests the listen address format.
func TestHealthAddr(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Port = 8081
	if got := cfg.HealthAddr(); got != ":8081" {
		t.Errorf("expected :8081, got %s", got)
	}
}
