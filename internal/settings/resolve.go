package settings

import (
	"strings"

	"slacknotifier/internal/build"
	"slacknotifier/internal/config"
)

// ChannelParameter is the build parameter that overrides the target channel
// for a single build.
const ChannelParameter = "SLACK_CHANNEL"

// Effective is the resolved notification configuration for one event.
type Effective struct {
	PostStarted    bool
	PostSuccessful bool
	PostFailed     bool
	Enabled        bool
	Channel        string
	IconURL        string
	WebhookURL     string
	Username       string
	FailedLink     string
	defaultChannel string
}

// Resolve overlays project overrides on the global defaults. A nil project
// yields the defaults with notifications enabled.
func Resolve(global config.Slack, project *Project) Effective {
	eff := Effective{
		PostStarted:    global.PostStarted,
		PostSuccessful: global.PostSuccessful,
		PostFailed:     global.PostFailed,
		Enabled:        true,
		IconURL:        strings.TrimSpace(global.LogoURL),
		WebhookURL:     strings.TrimSpace(global.WebhookURL),
		Username:       strings.TrimSpace(global.Username),
		FailedLink:     strings.TrimSpace(global.BuildFailedPermalink),
		defaultChannel: strings.TrimSpace(global.DefaultChannel),
	}
	if project == nil {
		return eff
	}

	eff.PostStarted = overlay(project.PostStarted, eff.PostStarted)
	eff.PostSuccessful = overlay(project.PostSuccessful, eff.PostSuccessful)
	eff.PostFailed = overlay(project.PostFailed, eff.PostFailed)
	eff.Enabled = project.Enabled
	eff.Channel = strings.TrimSpace(project.Channel)
	if logo := strings.TrimSpace(project.LogoURL); logo != "" {
		eff.IconURL = logo
	}
	return eff
}

// ChannelFor picks the destination channel: the build's SLACK_CHANNEL
// parameter, then the project channel, then the global default. An empty
// result lets the webhook's own default channel apply.
func (e Effective) ChannelFor(b build.Build) string {
	if channel := b.Parameter(ChannelParameter); channel != "" {
		return channel
	}
	if e.Channel != "" {
		return e.Channel
	}
	return e.defaultChannel
}

func overlay(override *bool, fallback bool) bool {
	if override == nil {
		return fallback
	}
	return *override
}
