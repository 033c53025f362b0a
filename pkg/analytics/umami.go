// Package analytics reports pageviews to a self-hosted Umami instance.
//
// Reporting is strictly best effort: the reporter is nil-safe, sends in the
// background, and drops events on any failure. It must never slow down or
// fail a render request.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/watzon/inkify/pkg/async"
)

// Reporter posts events to Umami's /api/send endpoint. A nil Reporter is a
// valid no-op, used when analytics is not configured.
type Reporter struct {
	websiteID string
	endpoint  string
	hc        *http.Client
}

// New builds a Reporter for the given Umami base URL and website ID. Returns
// nil when either is empty so callers can use the result unconditionally.
func New(baseURL, websiteID string) *Reporter {
	if baseURL == "" || websiteID == "" {
		return nil
	}
	return &Reporter{
		websiteID: websiteID,
		endpoint:  baseURL + "/api/send",
		hc:        &http.Client{Timeout: 5 * time.Second},
	}
}

type sendPayload struct {
	Type    string       `json:"type"`
	Payload eventPayload `json:"payload"`
}

type eventPayload struct {
	Website  string `json:"website"`
	URL      string `json:"url"`
	Hostname string `json:"hostname,omitempty"`
	Language string `json:"language,omitempty"`
	Referrer string `json:"referrer,omitempty"`
	Screen   string `json:"screen,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Pageview records a page hit for the given request. It returns immediately;
// delivery happens in the background.
func (r *Reporter) Pageview(path string, req *http.Request) {
	if r == nil {
		return
	}
	payload := sendPayload{
		Type: "event",
		Payload: eventPayload{
			Website:  r.websiteID,
			URL:      path,
			Hostname: req.Host,
			Language: req.Header.Get("Accept-Language"),
			Referrer: req.Header.Get("Referer"),
			Screen:   req.Header.Get("Screen"),
		},
	}
	r.deliver(payload, req.UserAgent())
}

// Event records a named event for the given request.
func (r *Reporter) Event(path, name string, req *http.Request) {
	if r == nil {
		return
	}
	payload := sendPayload{
		Type: "event",
		Payload: eventPayload{
			Website:  r.websiteID,
			URL:      path,
			Hostname: req.Host,
			Language: req.Header.Get("Accept-Language"),
			Screen:   req.Header.Get("Screen"),
			Name:     name,
		},
	}
	r.deliver(payload, req.UserAgent())
}

func (r *Reporter) deliver(payload sendPayload, userAgent string) {
	async.SafeGo(context.Background(), 5*time.Second, "umami send", nil, func(ctx context.Context) error {
		return r.send(ctx, payload, userAgent)
	})
}

func (r *Reporter) send(ctx context.Context, payload sendPayload, userAgent string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := r.hc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
