package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"slacknotifier/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckWebhook validates the configured webhook URL without contacting it.
func CheckWebhook(slack config.Slack) Result {
	const name = "Slack webhook"

	endpoint, err := slack.WebhookEndpoint()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: endpoint.Host}
}

// CheckWebhookReachable opens and closes a TCP connection to the webhook
// host. Nothing is posted.
func CheckWebhookReachable(ctx context.Context, rawURL string, timeout time.Duration) Result {
	const name = "Webhook host"

	endpoint, err := config.Slack{WebhookURL: rawURL}.WebhookEndpoint()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	port := endpoint.Port()
	if port == "" {
		port = "443"
		if endpoint.Scheme == "http" {
			port = "80"
		}
	}
	address := net.JoinHostPort(endpoint.Hostname(), port)

	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return Result{Name: name, Detail: summarizeDialError(address, err)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: address + " reachable"}
}

func summarizeDialError(address string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s (connect timed out)", address)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s (connect timed out)", address)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("%s (lookup failed: %s)", address, dnsErr.Err)
	}
	return fmt.Sprintf("%s (%v)", address, err)
}
