// Package config loads the INI configuration file that drives a send run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// MissingFieldError reports a required key absent from a configuration section.
type MissingFieldError struct {
	Section string
	Key     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required key %s in section [%s]", e.Key, e.Section)
}

// Config holds the complete application configuration.
type Config struct {
	// Provider selects the delivery backend: "smtp" (default) or "ses".
	Provider string
	SMTP     SMTPConfig
	SES      SESConfig
	Logging  LoggingConfig
}

// SMTPConfig holds SMTP relay connection and authentication settings.
// Username doubles as the From address of the outgoing message.
type SMTPConfig struct {
	Server        string
	Port          int
	Username      string
	Password      string
	FromName      string
	TLSSkipVerify bool
}

// SESConfig holds AWS SES v2 settings for the optional SES backend.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sender          string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
	Dir   string
}

// Load reads and validates the configuration file at path.
// It returns ErrConfigNotFound if the file does not exist and a
// *MissingFieldError if a required key is absent from the EMAIL section.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	cfg.applyDefaults()

	email, err := f.GetSection("EMAIL")
	if err != nil {
		return nil, &MissingFieldError{Section: "EMAIL", Key: "SMTP_SERVER"}
	}

	if cfg.SMTP.Server, err = requiredKey(email, "SMTP_SERVER"); err != nil {
		return nil, err
	}
	if _, err = requiredKey(email, "SMTP_PORT"); err != nil {
		return nil, err
	}
	if cfg.SMTP.Port, err = email.Key("SMTP_PORT").Int(); err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", email.Key("SMTP_PORT").String(), err)
	}
	if cfg.SMTP.Username, err = requiredKey(email, "USERNAME"); err != nil {
		return nil, err
	}
	if cfg.SMTP.Password, err = requiredKey(email, "PASSWORD"); err != nil {
		return nil, err
	}

	if v := email.Key("PROVIDER").String(); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	cfg.SMTP.FromName = email.Key("FROM_NAME").String()
	cfg.SMTP.TLSSkipVerify = email.Key("TLS_SKIP_VERIFY").MustBool(false)

	if ses, err := f.GetSection("SES"); err == nil {
		cfg.SES.Region = ses.Key("REGION").String()
		cfg.SES.AccessKeyID = ses.Key("ACCESS_KEY_ID").String()
		cfg.SES.SecretAccessKey = ses.Key("SECRET_ACCESS_KEY").String()
		cfg.SES.Sender = ses.Key("SENDER").String()
	}

	if logging, err := f.GetSection("LOGGING"); err == nil {
		if v := logging.Key("LEVEL").String(); v != "" {
			cfg.Logging.Level = strings.ToLower(v)
		}
		if v := logging.Key("DIR").String(); v != "" {
			cfg.Logging.Dir = v
		}
	}

	return cfg, nil
}

// SESConfigured returns true if the SES section carries the two fields the
// SES backend cannot run without.
func (c *Config) SESConfigured() bool {
	return c.SES.Region != "" && c.SES.Sender != ""
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Provider = "smtp"
	c.Logging.Level = "info"
	c.Logging.Dir = "logs"
}

// requiredKey returns the value of key in sec, or a *MissingFieldError when
// the key is absent or empty.
func requiredKey(sec *ini.Section, key string) (string, error) {
	if !sec.HasKey(key) {
		return "", &MissingFieldError{Section: sec.Name(), Key: key}
	}
	v := sec.Key(key).String()
	if v == "" {
		return "", &MissingFieldError{Section: sec.Name(), Key: key}
	}
	return v, nil
}
