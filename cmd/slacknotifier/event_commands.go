package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"slacknotifier/internal/api"
	"slacknotifier/internal/build"
	"slacknotifier/internal/config"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return wrapDaemonError(err, ctx.configValue().Paths.APIBind)
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, status)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			for _, line := range renderSectionHeader("Daemon Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range daemonStatusLines(status, colorize) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}
}

func daemonStatusLines(status api.DaemonStatus, colorize bool) []string {
	lines := make([]string, 0, 6)
	if status.Running {
		detail := fmt.Sprintf("Running (pid %d)", status.PID)
		if status.StartedAt != "" {
			detail += ", since " + status.StartedAt
		}
		lines = append(lines, renderStatusLine("Daemon", statusOK, detail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Daemon", statusError, "Not running", colorize))
	}
	if status.WebhookConfigured {
		lines = append(lines, renderStatusLine("Webhook", statusOK, "Configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("Webhook", statusWarn, status.WebhookProblem, colorize))
	}
	lines = append(lines,
		renderStatusLine("API", statusInfo, status.APIAddress, colorize),
		renderStatusLine("Listeners", statusInfo, fmt.Sprintf("%d", status.Listeners), colorize),
		renderStatusLine("Settings DB", statusInfo, status.SettingsDBPath, colorize),
		renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize),
	)
	return lines
}

func newEventCommand(ctx *commandContext) *cobra.Command {
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Send a build lifecycle event to the running daemon",
	}

	eventCmd.AddCommand(&cobra.Command{
		Use:   "started <build.json|->",
		Short: "Report that a build started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEvent(cmd, ctx, args[0], false)
		},
	})
	eventCmd.AddCommand(&cobra.Command{
		Use:   "finished <build.json|->",
		Short: "Report that a build finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEvent(cmd, ctx, args[0], true)
		},
	})

	return eventCmd
}

func sendEvent(cmd *cobra.Command, ctx *commandContext, source string, finished bool) error {
	b, err := readBuildDocument(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}
	client, err := ctx.apiClient()
	if err != nil {
		return err
	}

	var resp api.EventResponse
	if finished {
		resp, err = client.BuildFinished(cmd.Context(), b)
	} else {
		resp, err = client.BuildStarted(cmd.Context(), b)
	}
	if err != nil {
		return wrapDaemonError(err, ctx.configValue().Paths.APIBind)
	}

	if ctx.jsonMode() {
		return writeJSON(cmd, resp)
	}
	out := cmd.OutOrStdout()
	if resp.Accepted {
		fmt.Fprintf(out, "Event %s accepted for %s\n", resp.Event, b.FullName)
	} else {
		fmt.Fprintf(out, "Event ignored: %s\n", resp.Ignored)
	}
	return nil
}

func readBuildDocument(stdin io.Reader, source string) (build.Build, error) {
	var reader io.Reader
	source = strings.TrimSpace(source)
	if source == "-" {
		reader = stdin
	} else {
		path, err := config.ExpandPath(source)
		if err != nil {
			return build.Build{}, err
		}
		file, err := os.Open(path)
		if err != nil {
			return build.Build{}, fmt.Errorf("open build document: %w", err)
		}
		defer file.Close()
		reader = file
	}

	var b build.Build
	if err := json.NewDecoder(reader).Decode(&b); err != nil {
		return build.Build{}, fmt.Errorf("decode build document: %w", err)
	}
	if err := b.Validate(); err != nil {
		return build.Build{}, err
	}
	return b, nil
}
