package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/timer"
)

// defaultRemoteTimeout bounds how long a control command waits for the
// event loop.
const defaultRemoteTimeout = 2 * time.Second

// controlMsg carries a command from a Remote into the event loop. The
// reply channel is buffered so the loop never blocks on a gone caller.
// Exactly one side wins claim: the loop applies the command, or the caller
// abandons it after a timeout and the loop drops it.
type controlMsg struct {
	apply func(m *ClockModel) (tea.Cmd, error)
	reply chan controlReply
	claim *atomic.Int32
}

const (
	controlPending int32 = iota
	controlApplied
	controlAbandoned
)

type controlReply struct {
	status model.ClockStatus
	err    error
}

// Remote implements model.ClockController by sending commands to the
// program running a ClockModel. The engine is only touched from the event
// loop.
type Remote struct {
	send    func(tea.Msg)
	timeout time.Duration
}

var _ model.ClockController = (*Remote)(nil)

// NewRemote returns a controller that delivers commands with send,
// typically (*tea.Program).Send. A non-positive timeout takes the default.
func NewRemote(send func(tea.Msg), timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &Remote{send: send, timeout: timeout}
}

func (r *Remote) do(apply func(m *ClockModel) (tea.Cmd, error)) (model.ClockStatus, error) {
	reply := make(chan controlReply, 1)
	claim := new(atomic.Int32)
	// Send blocks until the program starts; the timeout covers that too.
	go r.send(controlMsg{apply: apply, reply: reply, claim: claim})

	t := time.NewTimer(r.timeout)
	defer t.Stop()
	select {
	case res := <-reply:
		return res.status, res.err
	case <-t.C:
		if claim.CompareAndSwap(controlPending, controlAbandoned) {
			return model.ClockStatus{}, model.ErrClockUnavailable
		}
		// The loop took the command just now; its reply is on the way.
		res := <-reply
		return res.status, res.err
	}
}

func (r *Remote) Status() (model.ClockStatus, error) {
	return r.do(func(*ClockModel) (tea.Cmd, error) { return nil, nil })
}

func (r *Remote) Start() (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		if m.engine.State() == timer.Running {
			return nil, nil
		}
		return m.toggleRun(), nil
	})
}

func (r *Remote) Pause() (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		m.engine.Pause()
		return nil, nil
	})
}

func (r *Remote) Stop() (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		m.engine.Stop()
		return nil, nil
	})
}

func (r *Remote) Reset() (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		m.engine.Reset()
		return nil, nil
	})
}

func (r *Remote) Adjust(seconds int64) (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		m.engine.Adjust(seconds)
		return nil, nil
	})
}

func (r *Remote) SetDuration(minutes int, confirm bool) (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		if !m.engine.SetDuration(minutes, confirm) {
			return nil, model.ErrRunInProgress
		}
		return nil, nil
	})
}

func (r *Remote) SetRemaining(seconds int64) (model.ClockStatus, error) {
	return r.do(func(m *ClockModel) (tea.Cmd, error) {
		return m.setRemaining(seconds), nil
	})
}

// handleControl applies a remote command on the event loop and answers it.
// Commands whose caller already gave up are dropped.
func (m *ClockModel) handleControl(msg controlMsg) tea.Cmd {
	if msg.claim != nil && !msg.claim.CompareAndSwap(controlPending, controlApplied) {
		return nil
	}
	cmd, err := msg.apply(m)
	msg.reply <- controlReply{status: m.Status(), err: err}
	return cmd
}

// Status reports the clock as seen by control clients.
func (m *ClockModel) Status() model.ClockStatus {
	remaining := m.engine.Remaining()
	return model.ClockStatus{
		State:     m.engine.State().String(),
		Remaining: remaining,
		Duration:  m.engine.Duration(),
		Display:   timer.FormatRemaining(remaining),
		Heading:   m.heading,
	}
}
