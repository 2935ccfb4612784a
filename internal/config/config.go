package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	OpenSky OpenSkyConfig `mapstructure:"opensky"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// OpenSkyConfig points the three upstream clients at the OpenSky network.
// The route and metadata URLs default to paths under BaseURL when empty.
type OpenSkyConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	RouteURL    string        `mapstructure:"route_url"`
	MetadataURL string        `mapstructure:"metadata_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type FeedConfig struct {
	MaxFlights         int           `mapstructure:"max_flights"`
	MaxRouteLookups    int           `mapstructure:"max_route_lookups"`
	MaxMetadataLookups int           `mapstructure:"max_metadata_lookups"`
	RouteTTL           time.Duration `mapstructure:"route_ttl"`
	MetadataTTL        time.Duration `mapstructure:"metadata_ttl"`
	CacheMaxEntries    int           `mapstructure:"cache_max_entries"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("opensky.base_url", "https://opensky-network.org/api")
	v.SetDefault("opensky.route_url", "")
	v.SetDefault("opensky.metadata_url", "")
	v.SetDefault("opensky.timeout", 10*time.Second)
	v.SetDefault("feed.max_flights", 200)
	v.SetDefault("feed.max_route_lookups", 80)
	v.SetDefault("feed.max_metadata_lookups", 120)
	v.SetDefault("feed.route_ttl", 5*time.Minute)
	v.SetDefault("feed.metadata_ttl", 30*time.Minute)
	v.SetDefault("feed.cache_max_entries", 16384)
	v.SetDefault("feed.request_timeout", 15*time.Second)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "flight-snapshots")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in the configs directory
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("PLANESPOTTER")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if we have defaults
			fmt.Println("Config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.OpenSky.RouteURL == "" {
		config.OpenSky.RouteURL = config.OpenSky.BaseURL + "/routes"
	}
	if config.OpenSky.MetadataURL == "" {
		config.OpenSky.MetadataURL = config.OpenSky.BaseURL + "/metadata/aircraft/icao24"
	}

	return &config, nil
}

func GetConfigPath() string {
	// First check for environment variable
	if path := os.Getenv("PLANESPOTTER_CONFIG_PATH"); path != "" {
		return path
	}

	// Then check for config in the configs directory
	configPath := filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	// Return empty string if no config found
	return ""
}
