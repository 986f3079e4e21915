// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds configuration for every parley service, loaded from an optional
// config file and the environment. A single struct is shared by all binaries;
// each service reads the fields it cares about.
type Config struct {
	Port      string `mapstructure:"PORT"`
	SecretKey string `mapstructure:"SECRET_KEY"`
	Env       string `mapstructure:"APP_ENV"`

	MySQLHost     string `mapstructure:"MYSQL_HOST"`
	MySQLPort     string `mapstructure:"MYSQL_PORT"`
	MySQLUser     string `mapstructure:"MYSQL_USER"`
	MySQLPassword string `mapstructure:"MYSQL_PASSWORD"`
	MySQLDatabase string `mapstructure:"MYSQL_DATABASE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	ElasticsearchURL       string `mapstructure:"ELASTICSEARCH_URL"`
	ElasticsearchSSLVerify bool   `mapstructure:"ELASTICSEARCH_SSL_VERIFY"`

	UserServiceURL       string `mapstructure:"USER_SERVICE_URL"`
	DiscussionServiceURL string `mapstructure:"DISCUSSION_SERVICE_URL"`
	CommentServiceURL    string `mapstructure:"COMMENT_SERVICE_URL"`
	LikeServiceURL       string `mapstructure:"LIKE_SERVICE_URL"`
	SearchServiceURL     string `mapstructure:"SEARCH_SERVICE_URL"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads configuration for the named service. The service name picks
// the default port so every binary can run without any environment set up.
func LoadConfig(service string) (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars are the deployment contract.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", defaultPort(service))
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SECRET_KEY", "dev-secret-change-in-production")
	viper.SetDefault("MYSQL_HOST", "localhost")
	viper.SetDefault("MYSQL_PORT", "3306")
	viper.SetDefault("MYSQL_USER", "user")
	viper.SetDefault("MYSQL_PASSWORD", "password")
	viper.SetDefault("MYSQL_DATABASE", "social_media")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ELASTICSEARCH_URL", "http://localhost:9200")
	viper.SetDefault("ELASTICSEARCH_SSL_VERIFY", true)
	viper.SetDefault("USER_SERVICE_URL", "http://user_service:5001")
	viper.SetDefault("DISCUSSION_SERVICE_URL", "http://discussion_service:5002")
	viper.SetDefault("COMMENT_SERVICE_URL", "http://comment_service:5003")
	viper.SetDefault("LIKE_SERVICE_URL", "http://like_service:5004")
	viper.SetDefault("SEARCH_SERVICE_URL", "http://search_service:5005")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func defaultPort(service string) string {
	switch service {
	case "gateway":
		return "5000"
	case "user":
		return "5001"
	case "discussion":
		return "5002"
	case "comment":
		return "5003"
	case "like":
		return "5004"
	case "search":
		return "5005"
	}
	return "5000"
}

// Validate ensures required values are present and meet production standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.SecretKey == "dev-secret-change-in-production" {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
		if c.MySQLPassword == "password" || c.MySQLPassword == "" {
			return errors.New("a strong MYSQL_PASSWORD is required in production")
		}
		if !c.ElasticsearchSSLVerify {
			log.Println("WARNING: ELASTICSEARCH_SSL_VERIFY is disabled in production")
		}
	}

	return nil
}
