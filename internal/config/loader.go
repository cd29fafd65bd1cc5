package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".datasetbot.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Environment variable names read by ApplyEnv.
const (
	EnvBotToken       = "TELEGRAM_BOT_TOKEN"
	EnvKaggleUsername = "KAGGLE_USERNAME"
	EnvKaggleKey      = "KAGGLE_KEY"
	EnvHFToken        = "HF_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvPort           = "PORT"
	EnvStagingDir     = "STAGING_DIR"
)

// File represents the YAML configuration file.
//
// Example:
//
//	bot_token: "123456:ABC..."
//	staging_dir: ./temp
//	catalog_timeout: 10s
//	catalogs:
//	  kaggle:
//	    username: alice
//	    key: "..."
//	  github:
//	    token: "ghp_..."
type File struct {
	BotToken          string        `yaml:"bot_token"`
	StagingDir        string        `yaml:"staging_dir"`
	ArchiveDir        string        `yaml:"archive_dir"`
	MaxPartSize       int64         `yaml:"max_part_size"`
	Port              int           `yaml:"port"`
	CatalogTimeout    time.Duration `yaml:"catalog_timeout"`
	TransportTimeout  time.Duration `yaml:"transport_timeout"`
	PollTimeout       time.Duration `yaml:"poll_timeout"`
	ResultsPerCatalog int           `yaml:"results_per_catalog"`
	MaxResults        int           `yaml:"max_results"`
	ProxyAddress      string        `yaml:"proxy"`
	UserAgent         string        `yaml:"user_agent"`
	LogFormat         string        `yaml:"log_format"`
	Catalogs          CatalogsFile  `yaml:"catalogs"`
}

// CatalogsFile groups per-catalog settings.
type CatalogsFile struct {
	Kaggle      CatalogFile `yaml:"kaggle"`
	HuggingFace CatalogFile `yaml:"huggingface"`
	GitHub      CatalogFile `yaml:"github"`
}

// CatalogFile holds credentials and endpoint overrides for one catalog.
// Username and Key are only used by Kaggle.
type CatalogFile struct {
	Username string `yaml:"username"`
	Key      string `yaml:"key"`
	Token    string `yaml:"token"`
	BaseURL  string `yaml:"base_url"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .datasetbot.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .datasetbot.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// ApplyFile overlays the non-zero values of f onto c.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	setString(&c.BotToken, f.BotToken)
	setString(&c.StagingDir, f.StagingDir)
	setString(&c.ArchiveDir, f.ArchiveDir)
	setString(&c.ProxyAddress, f.ProxyAddress)
	setString(&c.UserAgent, f.UserAgent)
	setString(&c.LogFormat, f.LogFormat)

	if f.MaxPartSize != 0 {
		c.MaxPartSize = f.MaxPartSize
	}
	if f.Port != 0 {
		c.Port = f.Port
	}
	if f.CatalogTimeout != 0 {
		c.CatalogTimeout = f.CatalogTimeout
	}
	if f.TransportTimeout != 0 {
		c.TransportTimeout = f.TransportTimeout
	}
	if f.PollTimeout != 0 {
		c.PollTimeout = f.PollTimeout
	}
	if f.ResultsPerCatalog != 0 {
		c.ResultsPerCatalog = f.ResultsPerCatalog
	}
	if f.MaxResults != 0 {
		c.MaxResults = f.MaxResults
	}

	setString(&c.Kaggle.Username, f.Catalogs.Kaggle.Username)
	setString(&c.Kaggle.Key, f.Catalogs.Kaggle.Key)
	setString(&c.Kaggle.BaseURL, f.Catalogs.Kaggle.BaseURL)
	setString(&c.HuggingFace.Token, f.Catalogs.HuggingFace.Token)
	setString(&c.HuggingFace.BaseURL, f.Catalogs.HuggingFace.BaseURL)
	setString(&c.GitHub.Token, f.Catalogs.GitHub.Token)
	setString(&c.GitHub.BaseURL, f.Catalogs.GitHub.BaseURL)
}

// ApplyEnv overlays environment variables onto c. lookup has the signature
// of os.LookupEnv so tests can supply their own environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	setString(&c.BotToken, get(EnvBotToken))
	setString(&c.StagingDir, get(EnvStagingDir))
	setString(&c.Kaggle.Username, get(EnvKaggleUsername))
	setString(&c.Kaggle.Key, get(EnvKaggleKey))
	setString(&c.HuggingFace.Token, get(EnvHFToken))
	setString(&c.GitHub.Token, get(EnvGitHubToken))

	if raw := get(EnvPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidPort, EnvPort, raw)
		}
		c.Port = port
	}
	return nil
}

// Load builds a Config from defaults, the configuration file and the
// environment. An explicitly named file that does not exist is an error;
// a missing default file is not.
func Load(configPath string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath

	path := FindConfigFile(configPath)
	if path == "" && configPath != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	if path != "" {
		file, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg.ApplyFile(file)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
