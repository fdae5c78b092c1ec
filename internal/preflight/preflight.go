package preflight

import (
	"context"

	"slacknotifier/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the preflight checks for the given config. The webhook
// reachability probe only runs when the endpoint itself is valid.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	webhook := CheckWebhook(cfg.Slack)
	results = append(results, webhook)
	if webhook.Passed {
		results = append(results, CheckWebhookReachable(ctx, cfg.Slack.WebhookURL, cfg.RequestTimeout()))
	}
	return results
}

// Failed filters results down to the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
