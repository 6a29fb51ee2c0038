package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/killallgit/agentchat/pkg/protocol"
	"github.com/spf13/viper"
)

// DefaultServerURL is used when no websocket base URL is configured
const DefaultServerURL = "ws://localhost:8000/ws"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	History HistoryConfig `mapstructure:"history"`
	Render  RenderConfig  `mapstructure:"render"`
}

// ServerConfig holds the agent backend connection settings
type ServerConfig struct {
	URL                 string        `mapstructure:"url"`
	ClientID            string        `mapstructure:"client_id"`
	Model               string        `mapstructure:"model"`
	ProjectID           string        `mapstructure:"project_id"`
	OutboundFormat      string        `mapstructure:"outbound_format"`
	ReadLimit           int64         `mapstructure:"read_limit"`
	HandshakeTimeout    time.Duration `mapstructure:"-"`
	HandshakeTimeoutStr string        `mapstructure:"handshake_timeout"`
	WriteTimeout        time.Duration `mapstructure:"-"`
	WriteTimeoutStr     string        `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// HistoryConfig controls the on-disk transcript mirror
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

// RenderConfig controls how agent content is drawn
type RenderConfig struct {
	Markdown  bool   `mapstructure:"markdown"`
	CodeTheme string `mapstructure:"code_theme"`
}

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Set replaces the global config instance. Intended for tests and embedding.
func Set(c *Config) {
	cfg = c
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.agentchat")
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "agentchat"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("AGENTCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnvironmentVariables()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(c); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	cfg = c
	return c, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("server.url", DefaultServerURL)
	viper.SetDefault("server.client_id", "")
	viper.SetDefault("server.model", "")
	viper.SetDefault("server.project_id", "")
	viper.SetDefault("server.outbound_format", string(protocol.FormatRaw))
	viper.SetDefault("server.read_limit", 1<<20)
	viper.SetDefault("server.handshake_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")

	viper.SetDefault("logging.log_file", "./.agentchat/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.file", "./.agentchat/chat.history")

	viper.SetDefault("render.markdown", true)
	viper.SetDefault("render.code_theme", "monokai")
}

// bindEnvironmentVariables binds environment variables that don't follow the prefix scheme
func bindEnvironmentVariables() {
	viper.BindEnv("server.url", "AGENTCHAT_WS_URL", "AGENTCHAT_SERVER_URL")
	viper.BindEnv("server.model", "AGENTCHAT_MODEL", "AGENTCHAT_SERVER_MODEL")
	viper.BindEnv("logging.level", "AGENTCHAT_LOG_LEVEL", "AGENTCHAT_LOGGING_LEVEL")
}

// processDurations converts string durations to time.Duration
func processDurations(c *Config) error {
	if c.Server.HandshakeTimeoutStr != "" {
		d, err := time.ParseDuration(c.Server.HandshakeTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid server.handshake_timeout: %w", err)
		}
		c.Server.HandshakeTimeout = d
	} else if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = 10 * time.Second
	}

	if c.Server.WriteTimeoutStr != "" {
		d, err := time.ParseDuration(c.Server.WriteTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid server.write_timeout: %w", err)
		}
		c.Server.WriteTimeout = d
	} else if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}

	return nil
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Server.URL) == "" {
		c.Server.URL = DefaultServerURL
	}
	if c.Server.OutboundFormat == "" {
		c.Server.OutboundFormat = string(protocol.FormatRaw)
	}
	if !protocol.Format(c.Server.OutboundFormat).Valid() {
		return fmt.Errorf("invalid server.outbound_format %q: want one of %v",
			c.Server.OutboundFormat, protocol.Formats())
	}
	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
