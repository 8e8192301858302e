package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Session SessionConfig `mapstructure:"session"`
	Uploads UploadsConfig `mapstructure:"uploads"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// CacheConfig holds the SQLite cache configuration.
type CacheConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// SessionConfig holds session cookie and lifetime configuration.
type SessionConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	Lifetime  int    `mapstructure:"lifetime"` // hours
}

// UploadsConfig holds configuration for image uploads.
type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("db.dsn", "agency.db")
	viper.SetDefault("cache.file_path", "cache.db")
	viper.SetDefault("session.lifetime", 24)
	viper.SetDefault("uploads.dir", "public/uploads")
	viper.SetDefault("uploads.max_bytes", 10<<20)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	// Set up viper to read from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/agency-site/")
	viper.AddConfigPath("$HOME/.agency-site")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	viper.SetEnvPrefix("AGENCY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
