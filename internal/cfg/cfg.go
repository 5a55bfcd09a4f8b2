// Package cfg loads the service configuration from a YAML file with
// environment-variable overrides, or from environment variables alone when no
// config file is given.
package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	ModelPath      string
	ColumnsPath    string
	WebPort        int
	MetricsPort    int
	DataPath       string
	HistorySize    int
	RequestTimeout time.Duration
}

type ConfigFile struct {
	Artifact struct {
		ModelPath   string `yaml:"modelPath"`
		ColumnsPath string `yaml:"columnsPath"`
	} `yaml:"artifact"`

	Server struct {
		WebPort        int    `yaml:"webPort"`
		MetricsPort    int    `yaml:"metricsPort"`
		RequestTimeout string `yaml:"requestTimeout"`
	} `yaml:"server"`

	System struct {
		DataPath    string `yaml:"dataPath"`
		HistorySize int    `yaml:"historySize"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	requestTimeout, err := time.ParseDuration(config.Server.RequestTimeout)
	if err != nil {
		requestTimeout = 10 * time.Second
	}

	settings := Settings{
		ModelPath:      getEnvOrDefault("MODEL_PATH", config.Artifact.ModelPath),
		ColumnsPath:    getEnvOrDefault("COLUMNS_PATH", config.Artifact.ColumnsPath),
		WebPort:        getIntFromEnvOrConfig("WEB_PORT", config.Server.WebPort, 8080),
		MetricsPort:    getIntFromEnvOrConfig("METRICS_PORT", config.Server.MetricsPort, 9090),
		DataPath:       getEnvOrDefault("DATA_PATH", config.System.DataPath),
		HistorySize:    getIntFromEnvOrConfig("HISTORY_SIZE", config.System.HistorySize, 50),
		RequestTimeout: requestTimeout,
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ModelPath:      getEnvOrDefault("MODEL_PATH", "model.json"),
		ColumnsPath:    getEnvOrDefault("COLUMNS_PATH", "columns.json"),
		WebPort:        getIntOrDefault("WEB_PORT", 8080),
		MetricsPort:    getIntOrDefault("METRICS_PORT", 9090),
		DataPath:       os.Getenv("DATA_PATH"), // optional
		HistorySize:    getIntOrDefault("HISTORY_SIZE", 50),
		RequestTimeout: getDurationOrDefault("REQUEST_TIMEOUT", 10*time.Second),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}
	if settings.ColumnsPath == "" {
		return fmt.Errorf("columns path cannot be empty")
	}

	if settings.WebPort < 1024 || settings.WebPort > 65535 {
		return fmt.Errorf("web port must be between 1024 and 65535, got %d", settings.WebPort)
	}
	if settings.MetricsPort < 1024 || settings.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 1024 and 65535, got %d", settings.MetricsPort)
	}
	if settings.WebPort == settings.MetricsPort {
		return fmt.Errorf("web port and metrics port must differ, both are %d", settings.WebPort)
	}

	if settings.RequestTimeout < time.Second || settings.RequestTimeout > time.Minute {
		return fmt.Errorf("request timeout must be between 1s and 1m, got %v", settings.RequestTimeout)
	}
	if settings.HistorySize <= 0 || settings.HistorySize > 1000 {
		return fmt.Errorf("history size must be between 1 and 1000, got %d", settings.HistorySize)
	}

	return nil
}
