package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/prospect-cli/internal/rules"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the scan archive backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ScanConfig configures how scans run. Zero TopN and MinListingsPerCompany keep the
// rule set's values.
type ScanConfig struct {
	RulesFile             string `yaml:"rules_file" mapstructure:"rules_file"`
	Workers               int    `yaml:"workers" mapstructure:"workers"`
	MaxListings           int    `yaml:"max_listings" mapstructure:"max_listings"`
	TopN                  int    `yaml:"top_n" mapstructure:"top_n"`
	MinListingsPerCompany int    `yaml:"min_listings_per_company" mapstructure:"min_listings_per_company"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospect.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("scan.rules_file", "")
	v.SetDefault("scan.workers", 0)
	v.SetDefault("scan.max_listings", 0)
	v.SetDefault("scan.top_n", 0)
	v.SetDefault("scan.min_listings_per_company", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 10<<20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Rules returns the effective rule set: the defaults, or the rules file overlaid on
// them, with any non-zero scan overrides applied.
func (c ScanConfig) Rules() (rules.Rules, error) {
	r := rules.Default()
	if c.RulesFile != "" {
		loaded, err := rules.LoadFile(c.RulesFile)
		if err != nil {
			return rules.Rules{}, eris.Wrap(err, "config: load rules")
		}
		r = loaded
	}
	if c.TopN > 0 {
		r.TopN = c.TopN
	}
	if c.MinListingsPerCompany > 0 {
		r.MinListingsPerCompany = c.MinListingsPerCompany
	}
	return r, nil
}

// RuleSet compiles the effective rules.
func (c ScanConfig) RuleSet() (*rules.Set, error) {
	r, err := c.Rules()
	if err != nil {
		return nil, err
	}
	return rules.Compile(r)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
