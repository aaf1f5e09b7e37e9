package socketrpc

import (
	"encoding/json"
	"testing"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// stubClock returns a fixed status for dispatch unit testing.
type stubClock struct{}

func (stubClock) status() model.ClockStatus {
	return model.ClockStatus{State: "idle", Remaining: 5400, Duration: 5400, Display: "01:30:00"}
}

func (c stubClock) Status() (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) Start() (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) Pause() (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) Stop() (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) Reset() (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) Adjust(int64) (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) SetDuration(int, bool) (model.ClockStatus, error) { return c.status(), nil }
func (c stubClock) SetRemaining(int64) (model.ClockStatus, error) { return c.status(), nil }

func newTestDispatcher() *Server {
	return &Server{clock: stubClock{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"Status", ``},
		{"Start", `{}`},
		{"Pause", `null`},
		{"Stop", ``},
		{"Reset", ``},
		{"Adjust", `{"Seconds":-60}`},
		{"SetDuration", `{"Minutes":45,"Confirm":true}`},
		{"SetRemaining", `{"Seconds":600}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			req := Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			}
			resp := srv.dispatch(req)
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %s", tt.method, resp.Error.Message)
			}
			var got model.ClockStatus
			if err := json.Unmarshal(resp.Result, &got); err != nil {
				t.Fatalf("dispatch(%s) result: %v", tt.method, err)
			}
			if got.Display != "01:30:00" {
				t.Errorf("Display = %q, want 01:30:00", got.Display)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("JSONRPC = %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID != 1 {
				t.Errorf("ID = %d, want 1", resp.ID)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "Explode",
		Params:  json.RawMessage(`{}`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("error code = %d, want -32601", resp.Error.Code)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		name   string
		method string
		params string
	}{
		{"garbage adjust", "Adjust", `not json`},
		{"missing adjust params", "Adjust", ``},
		{"negative minutes", "SetDuration", `{"Minutes":-5}`},
		{"negative remaining", "SetRemaining", `{"Seconds":-1}`},
		{"wrong type", "SetRemaining", `{"Seconds":"ten"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := srv.dispatch(Request{
				JSONRPC: "2.0",
				ID:      2,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			})
			if resp.Error == nil {
				t.Fatal("expected error for bad params")
			}
			if resp.Error.Code != -32602 {
				t.Errorf("error code = %d, want -32602 (invalid params)", resp.Error.Code)
			}
		})
	}
}

type refusingClock struct{ stubClock }

func (refusingClock) SetDuration(int, bool) (model.ClockStatus, error) {
	return model.ClockStatus{}, model.ErrRunInProgress
}

func TestDispatch_ApplicationError(t *testing.T) {
	t.Parallel()
	srv := &Server{clock: refusingClock{}}

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "SetDuration",
		Params:  json.RawMessage(`{"Minutes":30}`),
	})
	if resp.Error == nil {
		t.Fatal("expected application error")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code = %d, want -32000", resp.Error.Code)
	}
	if resp.Error.Message != model.ErrRunInProgress.Error() {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestDispatch_PreservesRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, id := range []int{0, 1, 42, 9999} {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      id,
			Method:  "Status",
		})
		if resp.ID != id {
			t.Errorf("request ID %d: response ID = %d", id, resp.ID)
		}
	}
}
