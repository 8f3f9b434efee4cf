// Package config handles application configuration management using Viper
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Supported chart storage backends
const (
	BackendBuntDB = "buntdb"
	BackendSQLite = "sqlite"
)

// Constants for configuration
const (
	DefaultServiceURL     = "http://localhost:8000/api"
	DefaultStorageBackend = BackendBuntDB
	DefaultStoragePath    = "./impulse.db"
	DefaultPort           = 8080
	DefaultRequestTimeout = "30s"
	DefaultRetryAttempts  = 1
)

// Config holds the application configuration
type Config struct {
	ServiceURL     string
	Token          string
	StorageBackend string
	StoragePath    string
	Port           int
	RequestTimeout time.Duration
	RetryAttempts  int
}

// Load reads the application configuration from environment variables,
// falling back to an optional impulse.yaml in the working directory
func Load() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("IMPULSE")

	viper.SetDefault("SERVICE_URL", DefaultServiceURL)
	viper.SetDefault("STORAGE_BACKEND", DefaultStorageBackend)
	viper.SetDefault("STORAGE_PATH", DefaultStoragePath)
	viper.SetDefault("PORT", DefaultPort)
	viper.SetDefault("REQUEST_TIMEOUT", DefaultRequestTimeout)
	viper.SetDefault("RETRY_ATTEMPTS", DefaultRetryAttempts)

	viper.SetConfigName("impulse")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	timeout, err := str2duration.ParseDuration(viper.GetString("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	backend := viper.GetString("STORAGE_BACKEND")
	if backend != BackendBuntDB && backend != BackendSQLite {
		return nil, fmt.Errorf("invalid storage backend %q: want %s or %s", backend, BackendBuntDB, BackendSQLite)
	}

	return &Config{
		ServiceURL:     viper.GetString("SERVICE_URL"),
		Token:          viper.GetString("TOKEN"),
		StorageBackend: backend,
		StoragePath:    viper.GetString("STORAGE_PATH"),
		Port:           viper.GetInt("PORT"),
		RequestTimeout: timeout,
		RetryAttempts:  viper.GetInt("RETRY_ATTEMPTS"),
	}, nil
}
