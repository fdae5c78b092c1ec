package notifier

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"slacknotifier/internal/build"
)

// Payload is the JSON document posted to the webhook.
type Payload struct {
	Channel     string       `json:"channel,omitempty"`
	Username    string       `json:"username"`
	Text        string       `json:"text"`
	IconURL     string       `json:"icon_url,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a colored block of labeled fields.
type Attachment struct {
	Fallback string  `json:"fallback"`
	Color    string  `json:"color"`
	Fields   []Field `json:"fields"`
}

// Field is a single title/value pair inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func attachments(b build.Build, color string) []Attachment {
	var out []Attachment
	if names := committerNames(b.Committers); len(names) > 0 {
		joined := strings.Join(names, ",")
		out = append(out, Attachment{
			Fallback: "Changes by" + joined,
			Color:    color,
			Fields:   []Field{{Title: "Changes By", Value: joined, Short: true}},
		})
	}
	if len(b.Issues) > 0 {
		ids := make([]string, 0, len(b.Issues))
		links := make([]string, 0, len(b.Issues))
		for _, issue := range b.Issues {
			ids = append(ids, issue.ID)
			links = append(links, "<"+issue.URL+"|"+issue.ID+">")
		}
		out = append(out, Attachment{
			Fallback: "Issues " + strings.Join(ids, ","),
			Color:    color,
			Fields:   []Field{{Title: "Related Issues", Value: strings.Join(links, ","), Short: true}},
		})
	}
	return out
}

// committerNames returns unique display names in first-seen order. Names are
// compared after NFC normalization; empty names are dropped.
func committerNames(users []build.User) []string {
	seen := make(map[string]struct{}, len(users))
	names := make([]string, 0, len(users))
	for _, user := range users {
		name := norm.NFC.String(user.DisplayName())
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
