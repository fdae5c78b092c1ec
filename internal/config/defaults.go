package config

const (
	defaultConfigPath     = "~/.config/slacknotifier/config.toml"
	defaultDataDir        = "~/.local/share/slacknotifier"
	defaultLogDir         = "~/.local/share/slacknotifier/logs"
	defaultAPIBind        = "127.0.0.1:8111"
	defaultUsername       = "TeamCity"
	defaultRequestTimeout = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Slack: Slack{
			Username:       defaultUsername,
			PostStarted:    false,
			PostSuccessful: true,
			PostFailed:     true,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
