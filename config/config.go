// Package config holds the connection and transfer settings for s3store.
//
// Settings can come from a YAML document, from the environment, or be
// filled in by hand; Load and FromEnv both return a Config with all
// defaults applied so a zero-effort setup still produces a usable client.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied whenever a field is left unset.
const (
	DefaultRegion      = "us-east-1"
	DefaultRetryMode   = "standard"
	DefaultMaxAttempts = 3

	// Multipart transfer defaults. PartSize matches the S3 minimum part
	// size; Concurrency bounds how many parts are in flight at once.
	DefaultConcurrency = 10
	DefaultPartSize    = 5 << 20 // 5 MiB
)

// Environment variables consulted by FromEnv.
const (
	EnvEndpoint  = "AWS_ENDPOINT"
	EnvAccessKey = "AWS_ACCESS_KEY_ID"
	EnvSecretKey = "AWS_SECRET_ACCESS_KEY"
)

// Credentials is a static access-key pair. Leave both fields empty to let
// the SDK's default credential chain resolve them.
type Credentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Multipart configures the multipart upload manager.
type Multipart struct {
	Concurrency int   `yaml:"concurrency"`
	PartSize    int64 `yaml:"part_size"`
}

// Config describes how to reach an S3-compatible endpoint.
type Config struct {
	Region      string      `yaml:"region"`
	Endpoint    string      `yaml:"endpoint"`
	Credentials Credentials `yaml:"credentials"`

	// ForcePathStyle defaults to true: most S3-compatible backends
	// (MinIO, LocalStack) do not resolve virtual-host bucket names.
	ForcePathStyle *bool `yaml:"force_path_style"`

	RetryMode   string `yaml:"retry_mode"`
	MaxAttempts int    `yaml:"max_attempts"`

	Multipart Multipart `yaml:"multipart"`
}

// Default returns a Config with every default applied and no endpoint or
// credentials set.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads a YAML configuration from r.
func Load(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a YAML configuration from the file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// FromEnv builds a Config from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func FromEnv() Config {
	_ = godotenv.Load()

	c := Default()
	c.Endpoint = os.Getenv(EnvEndpoint)
	c.Credentials.AccessKeyID = os.Getenv(EnvAccessKey)
	c.Credentials.SecretAccessKey = os.Getenv(EnvSecretKey)
	return c
}

// PathStyle reports whether path-style addressing should be used.
func (c *Config) PathStyle() bool {
	if c.ForcePathStyle == nil {
		return true
	}
	return *c.ForcePathStyle
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.RetryMode == "" {
		c.RetryMode = DefaultRetryMode
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Multipart.Concurrency <= 0 {
		c.Multipart.Concurrency = DefaultConcurrency
	}
	if c.Multipart.PartSize <= 0 {
		c.Multipart.PartSize = DefaultPartSize
	}
}

func (c *Config) validate() error {
	switch c.RetryMode {
	case "standard", "adaptive":
		return nil
	default:
		return fmt.Errorf("unknown retry_mode %q (want \"standard\" or \"adaptive\")", c.RetryMode)
	}
}
