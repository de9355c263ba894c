package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the timestamp format the stats service accepts and returns.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultApp identifies this service in recorded hits.
const DefaultApp = "ewm-main-service"

// viewsWindow is how far around now an event's hits are counted.
const viewsWindow = 50

// Hit is one recorded request to a public endpoint.
type Hit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats is the hit count for one app and uri.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client talks to the statistics service over HTTP.
type Client struct {
	baseURL string
	app     string
	client  *http.Client
	now     func() time.Time
}

// NewClient returns a stats client rooted at baseURL. An empty app defaults to DefaultApp.
func NewClient(baseURL string, client *http.Client, app string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if app == "" {
		app = DefaultApp
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		app:     app,
		client:  client,
		now:     time.Now,
	}
}

// EventURI is the public path under which an event's views are counted.
func EventURI(eventID string) string {
	return "/events/" + eventID
}

// RecordHit posts a hit for uri from ip.
func (c *Client) RecordHit(ctx context.Context, uri, ip string) error {
	body, err := json.Marshal(Hit{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: c.now().Format(TimeLayout),
	})
	if err != nil {
		return fmt.Errorf("failed to encode hit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to record hit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("stats hit returned status: %d", resp.StatusCode)
	}
	return nil
}

// Stats returns hit counts for uris between start and end. No uris means all of them.
func (c *Client) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	q := url.Values{}
	q.Set("start", start.Format(TimeLayout))
	q.Set("end", end.Format(TimeLayout))
	q.Set("unique", strconv.FormatBool(unique))
	if len(uris) > 0 {
		q.Set("uris", strings.Join(uris, ","))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats api returned status: %d", resp.StatusCode)
	}

	var data []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return data, nil
}

// EventViews returns the unique-visitor hits recorded for the event's public uri.
func (c *Client) EventViews(ctx context.Context, eventID string) (int64, error) {
	now := c.now()
	uri := EventURI(eventID)
	stats, err := c.Stats(ctx, now.AddDate(-viewsWindow, 0, 0), now.AddDate(viewsWindow, 0, 0), []string{uri}, true)
	if err != nil {
		return 0, err
	}
	for _, s := range stats {
		if s.URI == uri {
			return s.Hits, nil
		}
	}
	return 0, nil
}
