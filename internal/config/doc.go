// Package config loads, normalizes, and validates slacknotifier configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file that sits next to
// the config file, and honours environment fallbacks such as
// SLACK_WEBHOOK_URL. The Config type holds the global notification defaults
// that project-level settings overlay, plus the daemon's paths and logging
// knobs.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, expanded paths, and clear validation errors.
package config
