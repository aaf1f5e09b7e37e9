package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.ClockController over a Unix domain
// socket. Each method maps 1:1 to the ClockController interface and returns
// the resulting model.ClockStatus.
//
//   Method         Params                          Result
//   ────────────   ─────────────────────────────   ───────────
//   Status         (none)                          ClockStatus
//   Start          (none)                          ClockStatus
//   Pause          (none)                          ClockStatus
//   Stop           (none)                          ClockStatus
//   Reset          (none)                          ClockStatus
//   Adjust         {Seconds: int64}                ClockStatus
//   SetDuration    {Minutes: int, Confirm: bool}   ClockStatus
//   SetRemaining   {Seconds: int64}                ClockStatus
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32000  Application error (command refused or clock unavailable)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/hourglass/hourglass.sock, falling back to
// ~/.local/state/hourglass/hourglass.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "hourglass", "hourglass.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/hourglass.sock"
	}
	return filepath.Join(home, ".local", "state", "hourglass", "hourglass.sock")
}
