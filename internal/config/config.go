package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/stopwatch/internal/logger"
)

// Config holds connection and runtime parameters shared by the stopwatch binaries.
type Config struct {
	// ServerAddress is the gRPC address of the stopwatch server.
	ServerAddress string `yaml:"server_addr"`
	// WebAddress is the HTTP address serving the page, the WebSocket and metrics.
	// Empty disables the web listener.
	WebAddress string `yaml:"web_addr,omitempty"`
	// AllowedOrigins lists foreign page origins that may open the WebSocket,
	// "*" allows any. Same-origin pages are always allowed.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	// TickInterval is the display refresh period while the stopwatch runs.
	TickInterval time.Duration `yaml:"tick_interval"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "stopwatch-settings.yaml"

	// DefaultServerAddress is used when no settings file exists.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultWebAddress is used when no settings file exists.
	DefaultWebAddress = "127.0.0.1:8080"

	// DefaultTickInterval is the nominal display refresh period.
	DefaultTickInterval = 50 * time.Millisecond

	// MinTickInterval bounds the refresh rate from above.
	MinTickInterval = 10 * time.Millisecond

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errTickIntervalTooShort is returned for refresh periods below MinTickInterval.
	errTickIntervalTooShort = errors.New("tick interval is too short")
	// errUnknownLogLevel is returned for log levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		ServerAddress: DefaultServerAddress,
		WebAddress:    DefaultWebAddress,
		TickInterval:  DefaultTickInterval,
		Timeout:       DefaultTimeout,
		LogLevel:      "info",
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and formatting, filling in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.WebAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.WebAddress); err != nil {
			return fmt.Errorf("invalid web socket: %w", err)
		}
	}

	switch {
	case settings.TickInterval == 0:
		settings.TickInterval = DefaultTickInterval
	case settings.TickInterval < MinTickInterval:
		return fmt.Errorf("%w: %s < %s", errTickIntervalTooShort, settings.TickInterval, MinTickInterval)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	return nil
}
