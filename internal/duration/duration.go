// Package duration renders build durations as English text such as
// "1 hour 2 minutes and 3 seconds".
package duration

import (
	"errors"
	"strconv"
	"strings"

	"slacknotifier/internal/build"
)

// ErrNegative is returned for durations below zero.
var ErrNegative = errors.New("duration must not be negative")

type unit struct {
	value            int64
	singular, plural string
}

func (u unit) String() string {
	suffix := u.plural
	if u.value == 1 {
		suffix = u.singular
	}
	return strconv.FormatInt(u.value, 10) + " " + suffix
}

// Format renders milliseconds as hours, minutes, and seconds. Sub-second
// remainders are truncated. Zero units are dropped, except that a zero
// duration renders as "0 seconds". Minutes and seconds are joined with
// " and "; every other pair is joined with a single space.
func Format(millis int64) (string, error) {
	if millis < 0 {
		return "", ErrNegative
	}
	total := millis / 1000
	hours := unit{total / 3600, "hour", "hours"}
	minutes := unit{total % 3600 / 60, "minute", "minutes"}
	seconds := unit{total % 60, "second", "seconds"}

	if total == 0 {
		return seconds.String(), nil
	}

	var b strings.Builder
	if hours.value != 0 {
		b.WriteString(hours.String())
	}
	if minutes.value != 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(minutes.String())
	}
	if seconds.value != 0 {
		switch {
		case minutes.value != 0:
			b.WriteString(" and ")
		case b.Len() > 0:
			b.WriteByte(' ')
		}
		b.WriteString(seconds.String())
	}
	return b.String(), nil
}

// FromBuild formats the build's elapsed time.
func FromBuild(b build.Build) (string, error) {
	return Format(b.DurationMillis)
}
