package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	History struct {
		File         string `yaml:"file"`
		ArtifactsDir string `yaml:"artifactsDir"`
	} `yaml:"history"`

	// Settings: advisory index parameter run. sqlite (default) cukup untuk
	// deployment single-host; mysql/postgres untuk yang sudah punya server DB.
	Settings struct {
		Driver     string `yaml:"driver"` // sqlite | mysql | postgres
		SQLitePath string `yaml:"sqlitePath"`
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
	} `yaml:"settings"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.History.File == "" {
		c.History.File = "analysis_history.json"
	}
	if c.History.ArtifactsDir == "" {
		c.History.ArtifactsDir = "analysis_artifacts"
	}
	if c.Settings.Driver == "" {
		c.Settings.Driver = "sqlite"
	}
	if c.Settings.SQLitePath == "" {
		c.Settings.SQLitePath = "analysis_settings.db"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 50
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 10
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Settings.User,
		c.Settings.Password,
		c.Settings.Host,
		c.Settings.Port,
		c.Settings.Name,
	)
}

// Helper untuk build DSN PostgreSQL
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Settings.Host,
		c.Settings.Port,
		c.Settings.User,
		c.Settings.Password,
		c.Settings.Name,
	)
}
