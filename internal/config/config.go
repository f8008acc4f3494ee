package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"mcp-menu-gacha/internal/gacha"
)

// EnvPrefix prefixes environment overrides, e.g. MENU_GACHA_SERVER_PORT.
const EnvPrefix = "MENU_GACHA"

// Config represents the complete menu-gacha configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Gacha   GachaConfig   `mapstructure:"gacha"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the MCP HTTP listener
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// BaseURL is the address MCP clients use to reach this server. It is
	// advertised on the SSE stream as the message endpoint. Empty derives
	// it from Host and Port.
	BaseURL string `mapstructure:"base_url"`
}

// PublicURL returns BaseURL without a trailing slash, or
// http://host:port with a wildcard host replaced by localhost.
func (c ServerConfig) PublicURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	host := c.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// CatalogConfig selects where the menu is read from
type CatalogConfig struct {
	// DBPath is the SQLite catalog database
	DBPath string `mapstructure:"db_path"`
	// MenuFile, when set, serves the menu from a YAML file instead of the database
	MenuFile string `mapstructure:"menu_file"`
}

// GachaConfig holds pull defaults applied when a request leaves them out
type GachaConfig struct {
	MinBudget         int  `mapstructure:"min_budget"`
	MaxBudget         int  `mapstructure:"max_budget"`
	AllowDuplicates   bool `mapstructure:"allow_duplicates"`
	RequireStapleFood bool `mapstructure:"require_staple_food"`
	// BudgetLimit caps max_budget on incoming requests; tables grow with it
	BudgetLimit int `mapstructure:"budget_limit"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Development switches to human-readable console output
	Development bool `mapstructure:"development"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8012,
		},
		Catalog: CatalogConfig{
			DBPath: "/data/menu-gacha.db",
		},
		Gacha: GachaConfig{
			MinBudget:         gacha.DefaultMinBudget,
			MaxBudget:         gacha.DefaultMaxBudget,
			AllowDuplicates:   true,
			RequireStapleFood: false,
			BudgetLimit:       20000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers Default() with v so every key resolves without a
// config file.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.base_url", defaults.Server.BaseURL)

	v.SetDefault("catalog.db_path", defaults.Catalog.DBPath)
	v.SetDefault("catalog.menu_file", defaults.Catalog.MenuFile)

	v.SetDefault("gacha.min_budget", defaults.Gacha.MinBudget)
	v.SetDefault("gacha.max_budget", defaults.Gacha.MaxBudget)
	v.SetDefault("gacha.allow_duplicates", defaults.Gacha.AllowDuplicates)
	v.SetDefault("gacha.require_staple_food", defaults.Gacha.RequireStapleFood)
	v.SetDefault("gacha.budget_limit", defaults.Gacha.BudgetLimit)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.development", defaults.Logging.Development)
}

// New returns a viper instance with defaults and environment overrides set
// up. cfgFile, when non-empty, is read as the config file; otherwise
// config.yaml is looked up in the working directory and
// $HOME/.config/menu-gacha.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	// gacha.min_budget is read from MENU_GACHA_GACHA_MIN_BUDGET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/menu-gacha")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
