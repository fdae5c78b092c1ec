package notifier

import (
	"fmt"

	"slacknotifier/internal/build"
)

const (
	colorGood   = "good"
	colorDanger = "danger"
)

func startedText(b build.Build) string {
	return fmt.Sprintf("Project '%s' build started.", b.FullName)
}

func succeededText(b build.Build, elapsed string) string {
	return fmt.Sprintf("Project '%s' (%s) built successfully in %s.", b.FullName, branchLabel(b), elapsed)
}

func failedText(b build.Build, elapsed, permalink string) string {
	text := fmt.Sprintf("Project '%s' (%s) build failed! ( %s )", b.FullName, branchLabel(b), elapsed)
	if permalink != "" {
		text += "\n" + permalink
	}
	return text
}

func branchLabel(b build.Build) string {
	if b.Branch == nil {
		return ""
	}
	return b.Branch.Label()
}

func eventColor(event Event) string {
	if event == EventFailed {
		return colorDanger
	}
	return colorGood
}
