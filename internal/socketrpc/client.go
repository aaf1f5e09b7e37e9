package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// callTimeout bounds one request/response exchange.
const callTimeout = 10 * time.Second

// Client implements model.ClockController over a Unix domain socket using JSON-RPC 2.0.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

var _ model.ClockController = (*Client)(nil)

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxRequestSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params any, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(callTimeout))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}
	if resp.ID != id {
		return fmt.Errorf("socketrpc: response id %d, want %d", resp.ID, id)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

func (c *Client) status(method string, params any) (model.ClockStatus, error) {
	var result model.ClockStatus
	err := c.call(method, params, &result)
	return result, err
}

func (c *Client) Status() (model.ClockStatus, error) { return c.status("Status", nil) }
func (c *Client) Start() (model.ClockStatus, error) { return c.status("Start", nil) }
func (c *Client) Pause() (model.ClockStatus, error) { return c.status("Pause", nil) }
func (c *Client) Stop() (model.ClockStatus, error) { return c.status("Stop", nil) }
func (c *Client) Reset() (model.ClockStatus, error) { return c.status("Reset", nil) }

func (c *Client) Adjust(seconds int64) (model.ClockStatus, error) {
	return c.status("Adjust", map[string]any{"Seconds": seconds})
}

func (c *Client) SetDuration(minutes int, confirm bool) (model.ClockStatus, error) {
	return c.status("SetDuration", map[string]any{"Minutes": minutes, "Confirm": confirm})
}

func (c *Client) SetRemaining(seconds int64) (model.ClockStatus, error) {
	return c.status("SetRemaining", map[string]any{"Seconds": seconds})
}
