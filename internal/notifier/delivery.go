package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"slacknotifier/internal/services"
)

const userAgent = "slacknotifier/1.0"

func (n *Notifier) deliver(ctx context.Context, payload Payload) error {
	endpoint, err := n.slack.WebhookEndpoint()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "notifier", "deliver", "webhook url unusable", err)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}
	body := url.Values{"payload": {string(encoded)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "notifier", "deliver", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "notifier", "deliver", "post webhook", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransient, "notifier", "deliver",
			fmt.Sprintf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
