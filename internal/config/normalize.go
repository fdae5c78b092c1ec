package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSlack()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("SLACKNOTIFIER_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeSlack() {
	c.Slack.WebhookURL = strings.TrimSpace(c.Slack.WebhookURL)
	if c.Slack.WebhookURL == "" {
		if value, ok := os.LookupEnv("SLACK_WEBHOOK_URL"); ok {
			c.Slack.WebhookURL = strings.TrimSpace(value)
		}
	}
	c.Slack.DefaultChannel = strings.TrimSpace(c.Slack.DefaultChannel)
	c.Slack.LogoURL = strings.TrimSpace(c.Slack.LogoURL)
	c.Slack.Username = strings.TrimSpace(c.Slack.Username)
	if c.Slack.Username == "" {
		c.Slack.Username = defaultUsername
	}
	c.Slack.BuildFailedPermalink = strings.TrimSpace(c.Slack.BuildFailedPermalink)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
