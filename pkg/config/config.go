package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	Chat     ChatConfig     `mapstructure:"chat"`
	UI       UIConfig       `mapstructure:"ui"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// EndpointConfig describes the remote answering service
type EndpointConfig struct {
	URL                string            `mapstructure:"url"`
	Sentinel           string            `mapstructure:"sentinel"`
	Headers            map[string]string `mapstructure:"headers"`
	MaxEventSize       int               `mapstructure:"max_event_size"`
	ConnectTimeout     time.Duration     `mapstructure:"-"`
	ConnectTimeoutStr  string            `mapstructure:"connect_timeout"` // For parsing string duration
	ResponseTimeout    time.Duration     `mapstructure:"-"`
	ResponseTimeoutStr string            `mapstructure:"response_timeout"` // 0s disables the guard timer
}

// ChatConfig holds conversation settings
type ChatConfig struct {
	Greeting       string `mapstructure:"greeting"`
	MaxInputLength int    `mapstructure:"max_input_length"`
}

// UIConfig selects the presentation used by the root command
type UIConfig struct {
	Mode string `mapstructure:"mode"` // tui or plain
}

const (
	ModeTUI   = "tui"
	ModePlain = "plain"

	DefaultGreeting = "Hi, I'm the Mäd AI assistant. How can I help?"
	DefaultSentinel = "[DONE]"
)

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
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

		viper.AddConfigPath("./.madchat")
		viper.AddConfigPath(filepath.Join(xdgConfigHome, ".madchat"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.AutomaticEnv()
	bindEnvironmentVariables()

	if err := viper.ReadInConfig(); err != nil && !isMissingConfig(err, cfgFile) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(loaded); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

// Validate checks values that would otherwise fail much later at request time
func (c *Config) Validate() error {
	if c.Endpoint.URL == "" {
		return fmt.Errorf("endpoint.url must not be empty")
	}
	if c.Endpoint.Sentinel == "" {
		return fmt.Errorf("endpoint.sentinel must not be empty")
	}
	if c.Chat.MaxInputLength < 0 {
		return fmt.Errorf("chat.max_input_length must not be negative")
	}
	switch c.UI.Mode {
	case ModeTUI, ModePlain:
	default:
		return fmt.Errorf("ui.mode must be %q or %q, got %q", ModeTUI, ModePlain, c.UI.Mode)
	}
	return nil
}

// isMissingConfig reports whether a read error only means there is no config file yet
func isMissingConfig(err error, cfgFile string) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	if cfgFile != "" {
		if _, statErr := os.Stat(cfgFile); os.IsNotExist(statErr) {
			return true
		}
	}
	return false
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Logging defaults
	viper.SetDefault("logging.log_file", "./.madchat/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")

	// Endpoint defaults
	viper.SetDefault("endpoint.url", "http://localhost:3000/api/chat")
	viper.SetDefault("endpoint.sentinel", DefaultSentinel)
	viper.SetDefault("endpoint.headers", map[string]string{})
	viper.SetDefault("endpoint.max_event_size", 1024*1024)
	viper.SetDefault("endpoint.connect_timeout", "30s")
	viper.SetDefault("endpoint.response_timeout", "0s")

	// Chat defaults
	viper.SetDefault("chat.greeting", DefaultGreeting)
	viper.SetDefault("chat.max_input_length", 512)

	viper.SetDefault("ui.mode", ModeTUI)
}

// bindEnvironmentVariables binds MADCHAT_ environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("logging.log_file", "MADCHAT_LOG_FILE")
	viper.BindEnv("logging.level", "MADCHAT_LOG_LEVEL")
	viper.BindEnv("logging.preserve", "MADCHAT_LOG_PRESERVE")
	viper.BindEnv("endpoint.url", "MADCHAT_ENDPOINT_URL")
	viper.BindEnv("endpoint.sentinel", "MADCHAT_ENDPOINT_SENTINEL")
	viper.BindEnv("endpoint.connect_timeout", "MADCHAT_CONNECT_TIMEOUT")
	viper.BindEnv("endpoint.response_timeout", "MADCHAT_RESPONSE_TIMEOUT")
	viper.BindEnv("chat.greeting", "MADCHAT_GREETING")
	viper.BindEnv("ui.mode", "MADCHAT_UI_MODE")
}

// processDurations converts string durations to time.Duration
func processDurations(cfg *Config) error {
	if cfg.Endpoint.ConnectTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Endpoint.ConnectTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid endpoint.connect_timeout: %w", err)
		}
		cfg.Endpoint.ConnectTimeout = d
	} else if cfg.Endpoint.ConnectTimeout == 0 {
		cfg.Endpoint.ConnectTimeout = 30 * time.Second
	}

	if cfg.Endpoint.ResponseTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Endpoint.ResponseTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid endpoint.response_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("invalid endpoint.response_timeout: must not be negative")
		}
		cfg.Endpoint.ResponseTimeout = d
	}

	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
