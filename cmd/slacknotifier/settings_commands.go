package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slacknotifier/internal/api"
	"slacknotifier/internal/build"
	"slacknotifier/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and edit per-project notification overrides",
	}

	settingsCmd.AddCommand(newSettingsListCommand(ctx))
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsClearCommand(ctx))

	return settingsCmd
}

func newSettingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with stored overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *settings.Store) error {
				projects, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, api.ProjectListResponse{Projects: api.FromProjects(projects)})
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No project overrides stored; global defaults apply")
					return nil
				}
				fmt.Fprint(out, renderTable(
					[]string{"Project", "Started", "Successful", "Failed", "Channel", "Logo", "Enabled", "Updated"},
					projectRows(projects),
					[]columnAlignment{alignLeft, alignCenter, alignCenter, alignCenter, alignLeft, alignLeft, alignCenter, alignLeft},
				))
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func projectRows(projects []settings.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		updated := ""
		if !p.UpdatedAt.IsZero() {
			updated = p.UpdatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			p.ProjectID,
			settings.FormatToggle(p.PostStarted),
			settings.FormatToggle(p.PostSuccessful),
			settings.FormatToggle(p.PostFailed),
			p.Channel,
			p.LogoURL,
			yesNo(p.Enabled),
			updated,
		})
	}
	return rows
}

type effectiveOutput struct {
	Override  *api.ProjectSettings `json:"override,omitempty"`
	Effective effectiveSettings    `json:"effective"`
}

type effectiveSettings struct {
	PostStarted    bool   `json:"post_started"`
	PostSuccessful bool   `json:"post_successful"`
	PostFailed     bool   `json:"post_failed"`
	Enabled        bool   `json:"enabled"`
	Channel        string `json:"channel,omitempty"`
	IconURL        string `json:"icon_url,omitempty"`
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show stored overrides and the effective settings for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *settings.Store) error {
				project, err := store.Get(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				eff := settings.Resolve(ctx.configValue().Slack, project)
				view := effectiveOutput{
					Effective: effectiveSettings{
						PostStarted:    eff.PostStarted,
						PostSuccessful: eff.PostSuccessful,
						PostFailed:     eff.PostFailed,
						Enabled:        eff.Enabled,
						Channel:        eff.ChannelFor(build.Build{}),
						IconURL:        eff.IconURL,
					},
				}
				if project != nil {
					dto := api.FromProject(*project)
					view.Override = &dto
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				if project == nil {
					fmt.Fprintf(out, "No overrides stored for %s; global defaults apply\n", projectID)
					project = &settings.Project{ProjectID: projectID, Enabled: true}
				}
				fmt.Fprint(out, renderTable(
					[]string{"Setting", "Override", "Effective"},
					[][]string{
						{"post_started", settings.FormatToggle(project.PostStarted), yesNo(eff.PostStarted)},
						{"post_successful", settings.FormatToggle(project.PostSuccessful), yesNo(eff.PostSuccessful)},
						{"post_failed", settings.FormatToggle(project.PostFailed), yesNo(eff.PostFailed)},
						{"channel", project.Channel, view.Effective.Channel},
						{"logo_url", project.LogoURL, eff.IconURL},
						{"enabled", yesNo(project.Enabled), yesNo(eff.Enabled)},
					},
					nil,
				))
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		postStarted    string
		postSuccessful string
		postFailed     string
		channel        string
		logoURL        string
		enabled        bool
	)

	cmd := &cobra.Command{
		Use:   "set <project-id>",
		Short: "Create or update overrides for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := strings.TrimSpace(args[0])
			if projectID == "" {
				return errors.New("project id is required")
			}
			flags := cmd.Flags()
			return ctx.withStore(func(store *settings.Store) error {
				existing, err := store.Get(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				project := settings.NewProject(projectID)
				if existing != nil {
					project = *existing
				}

				toggles := []struct {
					flag   string
					value  string
					target **bool
				}{
					{"post-started", postStarted, &project.PostStarted},
					{"post-successful", postSuccessful, &project.PostSuccessful},
					{"post-failed", postFailed, &project.PostFailed},
				}
				for _, toggle := range toggles {
					if !flags.Changed(toggle.flag) {
						continue
					}
					parsed, err := settings.ParseToggle(toggle.value)
					if err != nil {
						return fmt.Errorf("--%s: %w", toggle.flag, err)
					}
					*toggle.target = parsed
				}
				if flags.Changed("channel") {
					project.Channel = strings.TrimSpace(channel)
				}
				if flags.Changed("logo-url") {
					project.LogoURL = strings.TrimSpace(logoURL)
				}
				if flags.Changed("enabled") {
					project.Enabled = enabled
				}

				saved, err := store.Put(cmd.Context(), project)
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, api.FromProject(*saved))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved overrides for %s\n", saved.ProjectID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&postStarted, "post-started", "", "Post when builds start (on, off, default)")
	cmd.Flags().StringVar(&postSuccessful, "post-successful", "", "Post when builds succeed (on, off, default)")
	cmd.Flags().StringVar(&postFailed, "post-failed", "", "Post when builds fail (on, off, default)")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel override (empty clears)")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "Icon URL override (empty clears)")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Enable notifications for the project")
	return cmd
}

func newSettingsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <project-id>",
		Short: "Remove all overrides for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *settings.Store) error {
				removed, err := store.Delete(cmd.Context(), projectID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !removed {
					fmt.Fprintf(out, "No overrides stored for %s\n", projectID)
					return nil
				}
				fmt.Fprintf(out, "Cleared overrides for %s\n", projectID)
				return nil
			})
		},
	}
}
