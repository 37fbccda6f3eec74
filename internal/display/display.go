// Package display holds the widget's render state.
//
// The daemon has no drawing surface of its own; a frontend polls the state
// over the control socket and renders it. The model is the single writer's
// (the daemon loop's) view of what should be on screen right now.
package display

import (
	"sync"

	"lessond/internal/board"
	"lessond/internal/tracking"
)

// State is a point-in-time copy of everything the widget renders.
type State struct {
	// Highlight is the lesson name to emphasise, "" for none.
	Highlight string `json:"highlight,omitempty"`

	// Countdown is the formatted remaining time, "" when blanked.
	Countdown string `json:"countdown,omitempty"`

	// Progress is the countdown arc fill in percent.
	Progress int `json:"progress"`

	// Remaining is the raw remaining seconds behind the countdown.
	Remaining int `json:"remaining"`

	// Activity is "lesson" or "break", "" when blanked.
	Activity string `json:"activity,omitempty"`

	// Pending is set while the first node has not started yet.
	Pending bool `json:"pending,omitempty"`

	// Mode is the active overlay mode.
	Mode string `json:"mode"`

	// PointerHidden mirrors the stationary-pointer detector.
	PointerHidden bool `json:"pointer_hidden,omitempty"`

	// Tomorrow lists tomorrow's lessons once the preview is due.
	Tomorrow []string `json:"tomorrow,omitempty"`

	// WindowOpen and WindowText describe the automation confirmation
	// window.
	WindowOpen bool   `json:"window_open,omitempty"`
	WindowText string `json:"window_text,omitempty"`
}

// Model is the mutex-guarded render state.
type Model struct {
	mu    sync.Mutex
	state State
}

// NewModel creates a blank model.
func NewModel() *Model {
	return &Model{state: State{Mode: board.ModeNone.String()}}
}

// SetTimes updates the countdown area from the tracker.
func (m *Model) SetTimes(info tracking.Info, highlight string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Highlight = highlight
	m.state.Countdown = info.Display().String()
	m.state.Progress = info.ProgressPercent()
	m.state.Remaining = info.Remaining
	m.state.Activity = info.Kind.String()
	m.state.Pending = info.NotStarted
}

// Blank clears the countdown area, used when nothing resolves.
func (m *Model) Blank() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Highlight = ""
	m.state.Countdown = ""
	m.state.Progress = 0
	m.state.Remaining = 0
	m.state.Activity = ""
	m.state.Pending = false
}

// SetMode records the active overlay mode.
func (m *Model) SetMode(mode board.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Mode = mode.String()
}

// SetPointerHidden mirrors the stationary-pointer detector.
func (m *Model) SetPointerHidden(hidden bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.PointerHidden = hidden
}

// SetTomorrow publishes (or clears) the tomorrow-course preview.
func (m *Model) SetTomorrow(courses []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(courses) == 0 {
		m.state.Tomorrow = nil
		return
	}
	m.state.Tomorrow = append([]string(nil), courses...)
}

// setWindow records the confirmation window contents.
func (m *Model) setWindow(open bool, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.WindowOpen = open
	m.state.WindowText = text
}

// Snapshot copies the current state.
func (m *Model) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Tomorrow = append([]string(nil), m.state.Tomorrow...)
	return s
}
