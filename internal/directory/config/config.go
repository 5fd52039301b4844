// Package config loads service configuration from a YAML file overlaid by
// environment variables of the same names.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	e "github.com/gartstein/partners/internal/directory/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look for the YAML file when CONFIG_PATH is unset.
const DefaultPath = "internal/directory/config/config.yaml"

// Config struct for YAML configuration
type Config struct {
	GRPCPort int `yaml:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT"`

	DBDriver   string `yaml:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBPath     string `yaml:"DB_PATH"`

	KafkaBrokers    []string `yaml:"KAFKA_BROKERS"`
	Topic           string   `yaml:"TOPIC"`
	NotifierGroupID string   `yaml:"NOTIFIER_GROUP_ID"`

	MasterPassword string `yaml:"MASTER_PASSWORD"`

	S3Endpoint      string `yaml:"S3_ENDPOINT"`
	S3Region        string `yaml:"S3_REGION"`
	S3Bucket        string `yaml:"S3_BUCKET"`
	S3AccessKey     string `yaml:"S3_ACCESS_KEY"`
	S3SecretKey     string `yaml:"S3_SECRET_KEY"`
	S3PublicBaseURL string `yaml:"S3_PUBLIC_BASE_URL"`

	SMTPHost     string   `yaml:"SMTP_HOST"`
	SMTPPort     int      `yaml:"SMTP_PORT"`
	SMTPUser     string   `yaml:"SMTP_USER"`
	SMTPPassword string   `yaml:"SMTP_PASSWORD"`
	MailFrom     string   `yaml:"MAIL_FROM"`
	AdminEmails  []string `yaml:"ADMIN_EMAIL"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		GRPCPort:        50051,
		HTTPPort:        8080,
		DBDriver:        "postgres",
		DBHost:          "localhost",
		DBPort:          5432,
		DBSSLMode:       "disable",
		DBPath:          "directory.db",
		Topic:           "directory.events",
		NotifierGroupID: "directory-notifier",
		S3Region:        "us-east-1",
		S3Bucket:        "gvc-public",
		SMTPPort:        587,
	}
}

// Load reads defaults, then the YAML file at path (a missing file is not an error),
// then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DB_DRIVER":          &c.DBDriver,
		"DB_HOST":            &c.DBHost,
		"DB_USER":            &c.DBUser,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_NAME":            &c.DBName,
		"DB_SSLMODE":         &c.DBSSLMode,
		"DB_PATH":            &c.DBPath,
		"TOPIC":              &c.Topic,
		"NOTIFIER_GROUP_ID":  &c.NotifierGroupID,
		"MASTER_PASSWORD":    &c.MasterPassword,
		"S3_ENDPOINT":        &c.S3Endpoint,
		"S3_REGION":          &c.S3Region,
		"S3_BUCKET":          &c.S3Bucket,
		"S3_ACCESS_KEY":      &c.S3AccessKey,
		"S3_SECRET_KEY":      &c.S3SecretKey,
		"S3_PUBLIC_BASE_URL": &c.S3PublicBaseURL,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_USER":          &c.SMTPUser,
		"SMTP_PASSWORD":      &c.SMTPPassword,
		"MAIL_FROM":          &c.MailFrom,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"GRPC_PORT": &c.GRPCPort,
		"HTTP_PORT": &c.HTTPPort,
		"DB_PORT":   &c.DBPort,
		"SMTP_PORT": &c.SMTPPort,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", e.ErrConfiguration, key)
		}
		*dst = n
	}

	lists := map[string]*[]string{
		"KAFKA_BROKERS": &c.KafkaBrokers,
		"ADMIN_EMAIL":   &c.AdminEmails,
	}
	for key, dst := range lists {
		if v, ok := lookup(key); ok {
			*dst = splitList(v)
		}
	}
	return nil
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	if c.MasterPassword == "" {
		return fmt.Errorf("%w: MASTER_PASSWORD is not set", e.ErrConfiguration)
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", e.ErrConfiguration, c.DBDriver)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("%w: KAFKA_BROKERS is empty", e.ErrConfiguration)
	}
	return nil
}

// ValidateNotifier checks the settings of the mail worker.
func (c *Config) ValidateNotifier() error {
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("%w: KAFKA_BROKERS is empty", e.ErrConfiguration)
	}
	if c.SMTPHost == "" || c.MailFrom == "" {
		return fmt.Errorf("%w: SMTP_HOST and MAIL_FROM are required", e.ErrConfiguration)
	}
	if len(c.AdminEmails) == 0 {
		return fmt.Errorf("%w: ADMIN_EMAIL is empty", e.ErrConfiguration)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
