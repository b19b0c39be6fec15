package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	IDP    IDPConfig    `yaml:"idp"`
	Search SearchConfig `yaml:"search"`
	Stream StreamConfig `yaml:"stream"`
	Worker WorkerConfig `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SwaggerDir     string   `yaml:"swagger_dir"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type IDPConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

type SearchConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

type StreamConfig struct {
	DemoIntervalSeconds int `yaml:"demo_interval_seconds"`
}

type WorkerConfig struct {
	CheckInSweepMinutes int `yaml:"check_in_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Secrets come from the environment when present, so the yaml file can
	// stay in the repo.
	if v := os.Getenv("IDP_API_KEY"); v != "" {
		cfg.IDP.APIKey = v
	}
	if v := os.Getenv("IDP_JWT_SECRET"); v != "" {
		cfg.IDP.JWTSecret = v
	}

	return &cfg, nil
}
