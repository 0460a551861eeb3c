package shared

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/syncengine"
)

// EngineEventMsg wraps a syncengine.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event syncengine.Event
}

// BridgeClosedMsg is delivered by the listen chain once the bridge has been
// closed and every buffered event has been consumed. It marks the point at
// which the event stream is fully processed.
type BridgeClosedMsg struct{}

// EventBridge adapts syncengine events to bubble tea messages.
// It implements syncengine.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	eventChan chan tea.Msg
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBufferSize),
	}
}

// Emit implements syncengine.EventEmitter.
// It wraps the event in EngineEventMsg and sends to the channel.
func (b *EventBridge) Emit(event syncengine.Event) {
	if b.closed {
		return
	}

	// Non-blocking send. The buffer is sized well past what a copy run emits;
	// if it ever fills, the event is dropped rather than stalling the engine.
	select {
	case b.eventChan <- EngineEventMsg{Event: event}:
	default:
	}
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this in Init() or after processing an event to continue listening.
// Once the bridge is closed and drained it yields BridgeClosedMsg.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return BridgeClosedMsg{}
		}

		return msg
	}
}

// Close closes the event channel. Call this once the engine run has returned.
func (b *EventBridge) Close() {
	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}

const eventBufferSize = 100
