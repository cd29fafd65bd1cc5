package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "datasetbot"

	// DefaultStagingDir is the directory bundled by the MLparset command,
	// relative to the working directory.
	DefaultStagingDir = "temp"

	// DefaultPort is the liveness listener port when PORT is not set.
	DefaultPort = 10000

	// DefaultCatalogTimeout bounds a single catalog HTTP request.
	DefaultCatalogTimeout = 10 * time.Second

	// RequestsPerCatalogSearch is the most HTTP requests one catalog search
	// makes (GitHub's broadened second pass).
	RequestsPerCatalogSearch = 2

	// DefaultTransportTimeout bounds a single Telegram API request. It must
	// exceed DefaultPollTimeout or long polling requests are cut short.
	DefaultTransportTimeout = 90 * time.Second

	// DefaultPollTimeout is the long polling timeout sent to Telegram.
	DefaultPollTimeout = 60 * time.Second

	// DefaultResultsPerCatalog is the result limit passed to each catalog.
	DefaultResultsPerCatalog = 5

	// DefaultMaxResults is the number of merged results sent to the user.
	DefaultMaxResults = 10

	// DefaultMaxPartSize is the largest file sent in one upload. Telegram
	// bots may upload up to 50 MB; the margin covers multipart overhead.
	DefaultMaxPartSize = 49 * 1024 * 1024

	// DefaultUserAgent identifies the bot to catalog backends.
	DefaultUserAgent = "datasetbot/1.0 (+https://github.com/NisargParmar1709/ML-dataset-bot)"

	// DefaultLogFormat is the log output format.
	DefaultLogFormat = "text"
)

// KaggleConfig holds the Kaggle API credentials.
type KaggleConfig struct {
	// Username is the Kaggle account name.
	Username string
	// Key is the Kaggle API key.
	Key string
	// BaseURL overrides the API host. Empty means https://www.kaggle.com.
	BaseURL string
}

// TokenConfig holds an optional bearer credential for a catalog.
type TokenConfig struct {
	// Token is sent as the request credential when set.
	Token string
	// BaseURL overrides the API host.
	BaseURL string
}

// Config holds all configuration options for datasetbot.
type Config struct {
	// BotToken is the Telegram Bot API token. Required by the serve command.
	BotToken string

	// StagingDir is the directory whose regular files are bundled on request.
	StagingDir string

	// ArchiveDir is where temporary archives are created.
	// Empty means os.TempDir().
	ArchiveDir string

	// MaxPartSize is the largest archive delivered in one piece; larger
	// archives are split into parts of at most this many bytes.
	MaxPartSize int64

	// Port is the liveness listener port.
	Port int

	// CatalogTimeout bounds each catalog HTTP request.
	CatalogTimeout time.Duration

	// TransportTimeout bounds each Telegram API request.
	TransportTimeout time.Duration

	// PollTimeout is the Telegram long polling timeout.
	PollTimeout time.Duration

	// ResultsPerCatalog is the limit passed to every catalog search.
	ResultsPerCatalog int

	// MaxResults is the number of merged results kept in a digest.
	MaxResults int

	// ProxyAddress is an optional SOCKS5 proxy ("host:port") for catalog traffic.
	ProxyAddress string

	// UserAgent is sent with catalog requests.
	UserAgent string

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// Kaggle holds the Kaggle credentials.
	Kaggle KaggleConfig

	// HuggingFace holds the optional Hugging Face token.
	HuggingFace TokenConfig

	// GitHub holds the optional GitHub token.
	GitHub TokenConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		StagingDir:        DefaultStagingDir,
		MaxPartSize:       DefaultMaxPartSize,
		Port:              DefaultPort,
		CatalogTimeout:    DefaultCatalogTimeout,
		TransportTimeout:  DefaultTransportTimeout,
		PollTimeout:       DefaultPollTimeout,
		ResultsPerCatalog: DefaultResultsPerCatalog,
		MaxResults:        DefaultMaxResults,
		UserAgent:         DefaultUserAgent,
		LogFormat:         DefaultLogFormat,
	}
}

// XDGConfigDir returns the XDG config directory for datasetbot.
// On Linux: ~/.config/datasetbot
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the settings shared by every command.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StagingDir) == "" {
		return ErrEmptyStagingDir
	}

	if sameDir(c.StagingDir, c.archiveDir()) {
		return ErrArchiveDirIsStaging
	}

	if c.CatalogTimeout <= 0 || c.TransportTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.PollTimeout <= 0 || c.PollTimeout >= c.TransportTimeout {
		return ErrInvalidPollTimeout
	}

	if c.ResultsPerCatalog <= 0 || c.MaxResults <= 0 {
		return ErrInvalidResultLimit
	}

	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}

	if c.MaxPartSize <= 0 {
		return ErrInvalidPartSize
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}

	return nil
}

// archiveDir returns the directory temporary archives are written to.
func (c *Config) archiveDir() string {
	if strings.TrimSpace(c.ArchiveDir) == "" {
		return os.TempDir()
	}
	return c.ArchiveDir
}

// sameDir reports whether a and b name the same directory once made
// absolute, with symlinks resolved where the paths exist.
func sameDir(a, b string) bool {
	return resolveDir(a) == resolveDir(b)
}

func resolveDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// ValidateServe checks everything Validate does plus the settings only the
// bot needs. A missing bot token is fatal: the process must not start.
func (c *Config) ValidateServe() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return ErrMissingBotToken
	}
	return c.Validate()
}

// EnsureStagingDir creates the staging directory if it does not exist.
func (c *Config) EnsureStagingDir() error {
	if err := os.MkdirAll(c.StagingDir, 0o750); err != nil {
		return fmt.Errorf("failed to create staging directory %s: %w", c.StagingDir, err)
	}
	return nil
}

// CatalogCallTimeout bounds one catalog's whole search, leaving room for
// every request that search may make.
func (c *Config) CatalogCallTimeout() time.Duration {
	return c.CatalogTimeout * RequestsPerCatalogSearch
}

// HealthAddr returns the listen address of the liveness endpoint.
func (c *Config) HealthAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
