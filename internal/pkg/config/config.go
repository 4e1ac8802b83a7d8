package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	Port           string   `yaml:"port"`
	BaseUrl        string   `yaml:"base_url"`
	PrivatePEM     string   `yaml:"private_pem"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Face recognition tuning. FaceThreshold is the maximum match distance;
	// a probe whose best distance exceeds it is treated as unknown.
	FaceThreshold    float64 `yaml:"face_threshold"`
	ExtractorURL     string  `yaml:"extractor_url"`
	ExtractorTimeout string  `yaml:"extractor_timeout"`
}

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}
	if c.ExtractorURL == "" {
		return nil, errors.New("missing extractor_url configuration")
	}

	if c.FaceThreshold == 0 {
		c.FaceThreshold = 0.6
	}
	if c.PrivatePEM == "" {
		c.PrivatePEM = "./private.pem"
	}
	if c.ExtractorTimeout == "" {
		c.ExtractorTimeout = "10s"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000"}
	}

	return &c, nil
}
