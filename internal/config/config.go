// Package config loads server settings from a .env file, an optional config
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "CATALOG_CONFIG_FILE"

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	HTTPAddr          string        `mapstructure:"http_addr"`
	DatabaseURL       string        `mapstructure:"database_url"`
	RunMigrations     bool          `mapstructure:"run_migrations"`
	KafkaBrokers      []string      `mapstructure:"kafka_brokers"`
	KafkaTopic        string        `mapstructure:"kafka_topic"`
	KafkaGroup        string        `mapstructure:"kafka_group"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenExpiry       time.Duration `mapstructure:"token_expiry"`
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPassword     string        `mapstructure:"admin_password"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	UploadDir         string        `mapstructure:"upload_dir"`
	UploadTimeout     time.Duration `mapstructure:"upload_timeout"`
	UseMockData       bool          `mapstructure:"use_mock_data"`
	Seed              bool          `mapstructure:"seed"`
	EmbeddedProjector bool          `mapstructure:"embedded_projector"`
	SecureCookies     bool          `mapstructure:"secure_cookies"`
}

var defaults = map[string]any{
	"http_addr":           ":8080",
	"database_url":        "",
	"run_migrations":      true,
	"kafka_brokers":       []string{},
	"kafka_topic":         "catalog-events",
	"kafka_group":         "catalog-projector",
	"jwt_secret":          devJWTSecret,
	"token_expiry":        24 * time.Hour,
	"admin_email":         "admin@grandefamilia.com",
	"admin_password":      "admin123",
	"admin_password_hash": "",
	"upload_dir":          "uploads",
	"upload_timeout":      5 * time.Second,
	"use_mock_data":       false,
	"seed":                true,
	"embedded_projector":  true,
	"secure_cookies":      false,
}

// Load reads configuration. args are the command line arguments after the
// program name; --config names a yaml/json/toml file and --env-file a
// dotenv file.
func Load(args []string) (Config, error) {
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	configFile := flags.String("config", "", "config file")
	envFile := flags.String("env-file", ".env", "dotenv file")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", *envFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	path := *configFile
	if env, ok := os.LookupEnv(configFileEnvName); ok && path == "" {
		path = env
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr must not be empty")
	}
	if c.UsesKafka() && c.KafkaTopic == "" {
		return errors.New("kafka_topic is required when kafka_brokers is set")
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == "" {
		return errors.New("admin_password or admin_password_hash is required")
	}
	return nil
}

// MockMode reports whether the server runs on in-memory stores
func (c Config) MockMode() bool {
	return c.UseMockData || c.DatabaseURL == ""
}

// UsesKafka reports whether events are projected through Kafka
func (c Config) UsesKafka() bool {
	return len(c.KafkaBrokers) > 0
}

// DevSecret reports whether the JWT secret is still the built-in default
func (c Config) DevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Print logs the effective configuration without secrets
func (c Config) Print() {
	log.Printf("[Config] http_addr=%q mock=%t migrations=%t", c.HTTPAddr, c.MockMode(), c.RunMigrations)
	log.Printf("[Config] kafka_brokers=%q topic=%q group=%q embedded_projector=%t",
		c.KafkaBrokers, c.KafkaTopic, c.KafkaGroup, c.EmbeddedProjector)
	log.Printf("[Config] admin_email=%q upload_dir=%q upload_timeout=%s token_expiry=%s seed=%t",
		c.AdminEmail, c.UploadDir, c.UploadTimeout, c.TokenExpiry, c.Seed)
}

// splitList flattens comma separated entries and drops blanks
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
