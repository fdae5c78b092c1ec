package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"slacknotifier/internal/duration"
)

type durationOutput struct {
	Millis int64  `json:"millis"`
	Text   string `json:"text"`
}

func newDurationCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "duration <milliseconds>",
		Short:       "Render a build duration the way notifications do",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			millis, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid milliseconds %q: %w", args[0], err)
			}
			text, err := duration.Format(millis)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, durationOutput{Millis: millis, Text: text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
