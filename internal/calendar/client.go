// Package calendar talks to the external calendar collaborator over a
// small JSON API: insert an event, list events in a time range.
package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Event is the wire shape of a calendar event.
type Event struct {
	ID              string    `json:"id,omitempty"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Timezone        string    `json:"timezone,omitempty"`
	ReminderMinutes int       `json:"reminderMinutes,omitempty"`
}

// Client handles calendar operations. A nil Client (unconfigured
// collaborator) is valid: every call reports unavailability.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a calendar Client, or nil when no endpoint is configured so
// the feature degrades silently.
func New(baseURL, token string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether the collaborator is configured.
func (c *Client) Enabled() bool {
	return c != nil
}

// InsertEvent creates one event and returns it with the server-assigned ID.
func (c *Client) InsertEvent(ev Event) (*Event, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("calendar not configured")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("calendar error (status %d): %s", resp.StatusCode, string(data))
	}

	var created Event
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &created, nil
}

// ListEvents returns the events between from and to.
func (c *Client) ListEvents(from, to time.Time) ([]Event, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("calendar not configured")
	}

	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))

	req, err := http.NewRequest("GET", c.baseURL+"/events?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar error (status %d): %s", resp.StatusCode, string(data))
	}

	var out struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	return out.Events, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
