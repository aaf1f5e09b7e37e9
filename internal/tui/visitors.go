package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// VisitorSource registers this session and streams the shared total.
type VisitorSource interface {
	Visit(ctx context.Context) (model.VisitResult, bool)
	Subscribe(ctx context.Context, fn func(int64)) error
}

// visitorRetryDelay is the pause before reopening a closed count stream.
const visitorRetryDelay = 10 * time.Second

type visitResultMsg struct {
	result model.VisitResult
	ok     bool
}

type visitorCountMsg struct {
	count  int64
	stream *visitorStream
}

type visitorStreamClosedMsg struct {
	err error
}

type visitorRetryMsg struct{}

// visitorStream bridges a blocking Subscribe call into the event loop.
// updates holds at most the latest count.
type visitorStream struct {
	updates chan int64
	done    chan error
}

func visitCmd(ctx context.Context, src VisitorSource) tea.Cmd {
	return func() tea.Msg {
		res, ok := src.Visit(ctx)
		return visitResultMsg{result: res, ok: ok}
	}
}

func openVisitorStream(ctx context.Context, src VisitorSource) tea.Cmd {
	s := &visitorStream{
		updates: make(chan int64, 1),
		done:    make(chan error, 1),
	}
	go func() {
		s.done <- src.Subscribe(ctx, s.offer)
	}()
	return s.wait()
}

func (s *visitorStream) offer(n int64) {
	for {
		select {
		case s.updates <- n:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

func (s *visitorStream) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-s.updates:
			return visitorCountMsg{count: n, stream: s}
		case err := <-s.done:
			select {
			case n := <-s.updates:
				s.done <- err
				return visitorCountMsg{count: n, stream: s}
			default:
			}
			return visitorStreamClosedMsg{err: err}
		}
	}
}

func (m *ClockModel) handleVisitorMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case visitResultMsg:
		if msg.ok {
			m.visitorCount = msg.result.Count
			m.hasVisitors = true
		}
		return nil

	case visitorCountMsg:
		m.visitorCount = msg.count
		m.hasVisitors = true
		return msg.stream.wait()

	case visitorStreamClosedMsg:
		if m.visitorCtx.Err() != nil {
			return nil
		}
		if msg.err != nil {
			log.Printf("tui: visitor stream: %v", msg.err)
		}
		return tea.Tick(visitorRetryDelay, func(time.Time) tea.Msg { return visitorRetryMsg{} })

	case visitorRetryMsg:
		if m.visitors == nil || m.visitorCtx.Err() != nil {
			return nil
		}
		return openVisitorStream(m.visitorCtx, m.visitors)
	}
	return nil
}
