// Package board owns the overlay mode state.
//
// The display host can be in exactly one of three modes: no overlay, the
// blackboard (screen-off) overlay, or the whiteboard overlay. Mode is a
// single mutually-exclusive enum rather than independent boolean flags, so
// invalid combinations (both overlays "on") are not representable.
package board

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Mode identifies the active overlay mode.
type Mode int

const (
	// ModeNone means no overlay is shown.
	ModeNone Mode = iota

	// ModeBlackboard is the full-screen screen-off overlay.
	ModeBlackboard

	// ModeWhiteboard is the full-screen whiteboard overlay.
	ModeWhiteboard
)

// String returns the config-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBlackboard:
		return "blackboard"
	case ModeWhiteboard:
		return "whiteboard"
	default:
		return "none"
	}
}

// ParseMode parses a config-file mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blackboard":
		return ModeBlackboard, nil
	case "whiteboard":
		return ModeWhiteboard, nil
	case "none":
		return ModeNone, nil
	default:
		return ModeNone, fmt.Errorf("unknown mode: %q", s)
	}
}

// Transition records one committed mode change.
type Transition struct {
	From Mode
	To   Mode
	At   time.Time
}

// Controller is the single owner of the current overlay mode.
//
// Transition is idempotent: asking for the mode that is already active is a
// no-op and is not announced to subscribers.
type Controller struct {
	mu        sync.RWMutex
	mode      Mode
	logger    *slog.Logger
	listeners []chan Transition
}

// NewController creates a controller starting in ModeNone.
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		logger: logger.With("component", "board"),
	}
}

// Mode returns the currently active mode.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Transition switches to the requested mode. Switching to the mode that is
// already active does nothing.
func (c *Controller) Transition(to Mode) {
	c.mu.Lock()
	if c.mode == to {
		c.mu.Unlock()
		c.logger.Debug("transition skipped, already in mode", "mode", to.String())
		return
	}

	tr := Transition{From: c.mode, To: to, At: time.Now()}
	c.mode = to
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.Info("mode transition", "from", tr.From.String(), "to", tr.To.String())

	for _, ch := range listeners {
		select {
		case ch <- tr:
		default:
			c.logger.Warn("transition listener full, dropping event")
		}
	}
}

// Subscribe returns a channel receiving committed transitions.
func (c *Controller) Subscribe() <-chan Transition {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Transition, 8)
	c.listeners = append(c.listeners, ch)
	return ch
}
