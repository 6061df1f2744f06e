package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Local cache
	SQLiteDBPath string

	// Remote document store
	MongoURI      string
	MongoDatabase string

	// Identity
	JWTSecret string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// SMTP (password-reset mail)
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	SenderEmail string

	// Google Sheets report mirror
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Save debounce
	DebounceInterval time.Duration

	// Worker sweep for saves whose events were lost
	RecheckInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/comeback.db"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "comeback"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "comeback"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_saved"),

		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SenderEmail: getEnv("SENDER_EMAIL", ""),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Reports"),

		DebounceInterval: getEnvDuration("SAVE_DEBOUNCE", time.Second),

		RecheckInterval: getEnvDuration("MIRROR_RECHECK_INTERVAL", time.Hour),
	}
}

// Validate validates the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.MongoURI == "" {
		errors = append(errors, "Mongo URI cannot be empty")
	} else if parsedURL, err := url.Parse(c.MongoURI); err != nil {
		errors = append(errors, fmt.Sprintf("invalid Mongo URI '%s': %v", c.MongoURI, err))
	} else if parsedURL.Scheme != "mongodb" && parsedURL.Scheme != "mongodb+srv" {
		errors = append(errors, fmt.Sprintf("invalid Mongo URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", parsedURL.Scheme))
	}
	if c.MongoDatabase == "" {
		errors = append(errors, "Mongo database name cannot be empty")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be set")
	} else if len(c.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}

	// AMQP is optional; when configured the names must be complete.
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// SMTP is optional; when configured the sender must be complete.
	if c.SMTPHost != "" {
		if c.SMTPPort == "" {
			errors = append(errors, "SMTP port cannot be empty when SMTP host is provided")
		}
		if c.SenderEmail == "" {
			errors = append(errors, "sender email cannot be empty when SMTP host is provided")
		}
	}

	if c.DebounceInterval < 50*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid save debounce %v: must be at least 50ms", c.DebounceInterval))
	} else if c.DebounceInterval > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid save debounce %v: must be at most 1 minute", c.DebounceInterval))
	}

	if c.RecheckInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid mirror recheck interval %v: must be at least 1 minute", c.RecheckInterval))
	} else if c.RecheckInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid mirror recheck interval %v: must be at most 24 hours", c.RecheckInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
