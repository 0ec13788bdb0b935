package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Platforms struct {
		LeetCodeBaseURL      string        `yaml:"leetcodeBaseUrl"`
		CodeForcesBaseURL    string        `yaml:"codeforcesBaseUrl"`
		CodeChefBaseURL      string        `yaml:"codechefBaseUrl"`
		GeeksForGeeksBaseURL string        `yaml:"geeksforgeeksBaseUrl"`
		FetchTimeout         time.Duration `yaml:"fetchTimeout"`
		RequestsPerSecond    float64       `yaml:"requestsPerSecond"`
		Burst                int           `yaml:"burst"`
	} `yaml:"platforms"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // minutes
	} `yaml:"jwt"`

	Metrics struct {
		User     string `yaml:"user"`
		Password string `yaml:"password"`
	} `yaml:"metrics"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Platforms.LeetCodeBaseURL == "" {
		c.Platforms.LeetCodeBaseURL = "https://leetcode-stats-api.herokuapp.com"
	}
	if c.Platforms.CodeForcesBaseURL == "" {
		c.Platforms.CodeForcesBaseURL = "https://codeforces.com/api"
	}
	if c.Platforms.CodeChefBaseURL == "" {
		c.Platforms.CodeChefBaseURL = "https://codechef-api.vercel.app"
	}
	if c.Platforms.GeeksForGeeksBaseURL == "" {
		c.Platforms.GeeksForGeeksBaseURL = "https://www.geeksforgeeks.org"
	}
	if c.Platforms.FetchTimeout <= 0 {
		c.Platforms.FetchTimeout = 6 * time.Second
	}
	if c.Platforms.RequestsPerSecond <= 0 {
		c.Platforms.RequestsPerSecond = 5
	}
	if c.Platforms.Burst <= 0 {
		c.Platforms.Burst = 10
	}
	if c.JWT.Expiry <= 0 {
		c.JWT.Expiry = 24 * 60
	}
}
