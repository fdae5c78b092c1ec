package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
//
// A missing or malformed webhook URL is not a validation error; the notifier
// reports it per event and preflight surfaces it on start.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSlack(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateSlack() error {
	if err := ensurePositiveMap(map[string]int{
		"slack.request_timeout": c.Slack.RequestTimeout,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Slack.Username) == "" {
		return errors.New("slack.username must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
