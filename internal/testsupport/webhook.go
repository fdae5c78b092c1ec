package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// WebhookRequest is one POST captured by a WebhookRecorder.
type WebhookRequest struct {
	Method      string
	ContentType string
	Body        string
	Payload     map[string]any
}

// WebhookRecorder is an httptest server that records incoming webhook posts.
type WebhookRecorder struct {
	*httptest.Server

	mu       sync.Mutex
	requests []WebhookRequest
	status   int
}

// NewWebhookRecorder starts a recorder that answers with the given status
// (200 when zero) and closes it on cleanup.
func NewWebhookRecorder(t testing.TB, status int) *WebhookRecorder {
	t.Helper()
	if status == 0 {
		status = http.StatusOK
	}
	rec := &WebhookRecorder{status: status}
	rec.Server = httptest.NewServer(http.HandlerFunc(rec.handle))
	t.Cleanup(rec.Close)
	return rec
}

func (r *WebhookRecorder) handle(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	captured := WebhookRequest{
		Method:      req.Method,
		ContentType: req.Header.Get("Content-Type"),
		Body:        string(body),
	}
	if values, err := url.ParseQuery(string(body)); err == nil {
		if raw := values.Get("payload"); raw != "" {
			var payload map[string]any
			if json.Unmarshal([]byte(raw), &payload) == nil {
				captured.Payload = payload
			}
		}
	}

	r.mu.Lock()
	r.requests = append(r.requests, captured)
	r.mu.Unlock()

	w.WriteHeader(r.status)
	_, _ = w.Write([]byte("ok"))
}

// Requests returns a copy of the captured requests.
func (r *WebhookRecorder) Requests() []WebhookRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]WebhookRequest(nil), r.requests...)
}
