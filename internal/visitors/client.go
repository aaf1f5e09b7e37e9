// Package visitors talks to the visitor counter service and decides when
// this installation counts as a new visit.
package visitors

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// ErrDisabled is returned by a client without a base URL.
var ErrDisabled = errors.New("visitors: counter url not configured")

// Client is a visitor counter API client.
type Client struct {
	base   *url.URL
	http   *http.Client
	stream *http.Client
}

// NewClient creates a client for the service at baseURL. Requests other than
// the stream are bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrDisabled
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("visitors: parse counter url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("visitors: counter url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		stream: &http.Client{},
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

// Increment records a visit for sessionID.
func (c *Client) Increment(ctx context.Context, sessionID string) (model.VisitResult, error) {
	body, err := json.Marshal(map[string]string{"session_id": sessionID})
	if err != nil {
		return model.VisitResult{}, fmt.Errorf("visitors: encode visit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/visits"), bytes.NewReader(body))
	if err != nil {
		return model.VisitResult{}, fmt.Errorf("visitors: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Count   int64 `json:"count"`
		Counted bool  `json:"counted"`
	}
	if err := c.do(req, &out); err != nil {
		return model.VisitResult{}, err
	}
	return model.VisitResult{Count: out.Count, Counted: out.Counted}, nil
}

// Count fetches the current total.
func (c *Client) Count(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/visits"), nil)
	if err != nil {
		return 0, fmt.Errorf("visitors: build request: %w", err)
	}
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("visitors: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("visitors: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("visitors: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// Subscribe streams count updates to fn until ctx is cancelled or the
// stream ends. The first value is the current total.
func (c *Client) Subscribe(ctx context.Context, fn func(int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/visits/stream"), nil)
	if err != nil {
		return fmt.Errorf("visitors: build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("visitors: open stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("visitors: open stream: status %d", resp.StatusCode)
	}

	return readEvents(resp.Body, func(event, data string) {
		if event != "" && event != "visits" {
			return
		}
		var payload struct {
			Count int64 `json:"count"`
		}
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return
		}
		fn(payload.Count)
	})
}

// readEvents parses a server-sent event stream, calling fn per dispatched
// event. Comment lines and unknown fields are skipped.
func readEvents(r io.Reader, fn func(event, data string)) error {
	sc := bufio.NewScanner(r)
	var event string
	var data []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if len(data) > 0 {
				fn(event, strings.Join(data, "\n"))
			}
			event, data = "", data[:0]
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("visitors: read stream: %w", err)
	}
	return nil
}
