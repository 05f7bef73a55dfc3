package main

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host        string
	Port        int
	Environment string
	LogLevel    string

	// Database settings
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// InboundKey protects the webhook. Empty disables the check.
	InboundKey string

	// OperatorBCC receives a copy of every failure notice.
	OperatorBCC string

	// Mail settings
	MailProvider        string
	MailFromAddress     string
	MailFromName        string
	PostmarkServerToken string
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string

	// Archive settings
	ArchiveProvider  string
	ArchiveLocalPath string
	ArchiveS3Bucket  string
	ArchiveS3Region  string

	// Fetch settings
	FetchTimeout time.Duration

	// Queue settings
	QueueWorkerCount     int
	QueuePollInterval    time.Duration
	QueueJobTimeout      time.Duration
	QueueShutdownTimeout time.Duration
	QueueMaxAttempts     int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		// Server settings
		Host:        envString(getenv, "SERVER_HOST", "localhost"),
		Port:        envInt(getenv, "SERVER_PORT", 8080),
		Environment: envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:    envString(getenv, "LOG_LEVEL", "info"),

		// Database settings
		DBUser:     envString(getenv, "DB_USER", "postgres"),
		DBPassword: envString(getenv, "DB_PASSWORD", ""),
		DBHost:     envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:     envString(getenv, "DB_PORT", "5432"),
		DBName:     envString(getenv, "DB_NAME", "satbrowse"),

		InboundKey:  envString(getenv, "INBOUND_KEY", ""),
		OperatorBCC: envString(getenv, "OPERATOR_BCC", ""),

		// Mail settings
		MailProvider:        envString(getenv, "MAIL_PROVIDER", "mock"),
		MailFromAddress:     envString(getenv, "MAIL_FROM_ADDRESS", "sat-browse@localhost"),
		MailFromName:        envString(getenv, "MAIL_FROM_NAME", "Sat-Browse"),
		PostmarkServerToken: envString(getenv, "POSTMARK_SERVER_TOKEN", ""),
		SMTPHost:            envString(getenv, "SMTP_HOST", ""),
		SMTPPort:            envInt(getenv, "SMTP_PORT", 587),
		SMTPUsername:        envString(getenv, "SMTP_USERNAME", ""),
		SMTPPassword:        envString(getenv, "SMTP_PASSWORD", ""),

		// Archive settings
		ArchiveProvider:  envString(getenv, "ARCHIVE_PROVIDER", "none"),
		ArchiveLocalPath: envString(getenv, "ARCHIVE_LOCAL_PATH", "./archive"),
		ArchiveS3Bucket:  envString(getenv, "ARCHIVE_S3_BUCKET", ""),
		ArchiveS3Region:  envString(getenv, "ARCHIVE_S3_REGION", "us-east-1"),

		// Fetch settings
		FetchTimeout: envDuration(getenv, "FETCH_TIMEOUT", 30*time.Second),

		// Queue settings
		QueueWorkerCount:     envInt(getenv, "QUEUE_WORKER_COUNT", 3),
		QueuePollInterval:    envDuration(getenv, "QUEUE_POLL_INTERVAL", time.Second),
		QueueJobTimeout:      envDuration(getenv, "QUEUE_JOB_TIMEOUT", 60*time.Second),
		QueueShutdownTimeout: envDuration(getenv, "QUEUE_SHUTDOWN_TIMEOUT", 10*time.Second),
		QueueMaxAttempts:     envInt(getenv, "QUEUE_MAX_ATTEMPTS", 3),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// validate checks production requirements.
func (c *Config) validate() error {
	if c.Environment == "prod" || c.Environment == "production" {
		if c.InboundKey == "" {
			return fmt.Errorf("INBOUND_KEY must be set in production environment")
		}
		if c.MailProvider == "mock" {
			return fmt.Errorf("MAIL_PROVIDER must be postmark or smtp in production environment")
		}
	}
	if c.MailProvider == "postmark" && c.PostmarkServerToken == "" {
		return fmt.Errorf("POSTMARK_SERVER_TOKEN must be set when MAIL_PROVIDER=postmark")
	}
	if c.MailProvider == "smtp" && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when MAIL_PROVIDER=smtp")
	}
	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
