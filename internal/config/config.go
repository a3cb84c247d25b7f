package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		URL      string `mapstructure:"url"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`

	Auth struct {
		Issuer   string `mapstructure:"issuer"`
		Audience string `mapstructure:"audience"`
		// Roles allowed to call the tool-execution routes. super_admin
		// passes regardless of membership.
		AllowedRoles   []string `mapstructure:"allowed_roles"`
		AppCheckHeader string   `mapstructure:"app_check_header"`
	} `mapstructure:"auth"`

	Upstream struct {
		// Budget for a single gateway -> tool call.
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"upstream"`

	Registry struct {
		// Static toolId -> base URL mapping. Immutable after start.
		Tools map[string]string `mapstructure:"tools"`
	} `mapstructure:"registry"`

	Audit struct {
		RetentionDays int `mapstructure:"retention_days"`
	} `mapstructure:"audit"`

	Observability struct {
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

func MustLoad() *Config {
	v := viper.New()

	logger := slog.Default()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("MCP_GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		logger.Error("Failed to read config", slog.Any("error", err))
		os.Exit(1)
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		}
		logger.Info("Environment-specific config loaded", slog.String("env", env))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("Failed to unmarshal config", slog.Any("error", err))
		os.Exit(1)
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8180")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("auth.allowed_roles", []string{"super_admin", "org_admin", "case_worker"})
	v.SetDefault("auth.app_check_header", "X-App-Check")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("audit.retention_days", 365)
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
}
