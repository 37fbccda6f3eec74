// Package input detects discrete user activity by polling the OS input
// state, independent of any window event queue.
//
// Interruption has to be observable even while a full-screen overlay owned
// by another process holds input focus, so the monitor never relies on
// delivered events. Every poll it snapshots pointer position and key state
// and derives activity from the transition since the previous snapshot:
//
//   - a key counts only on its press transition, and modifier keys never
//     count;
//   - pointer displacement counts only while a mouse button is held, so
//     incidental cursor drift does not interrupt anything.
//
// The activity flag is level-set: once raised it stays raised until the
// consumer resets it. OS query failures drop the sample and the loop keeps
// going.
package input

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Reference cadences and thresholds for the two poll loops.
const (
	// DefaultPollInterval is the activity poll period.
	DefaultPollInterval = 20 * time.Millisecond

	// DefaultStationaryInterval is the stationary-pointer poll period.
	DefaultStationaryInterval = 100 * time.Millisecond

	// DefaultHideDelay is how long the pointer must sit still before the
	// hide signal fires.
	DefaultHideDelay = 2000 * time.Millisecond
)

// Virtual key codes shared with the platform samplers. The Windows numbering
// is used on every platform; non-Windows samplers only ever synthesize
// KeySynthetic.
const (
	KeyLeftButton   uint16 = 0x01
	KeyRightButton  uint16 = 0x02
	KeyMiddleButton uint16 = 0x04
	KeyShift        uint16 = 0x10
	KeyControl      uint16 = 0x11
	KeyAlt          uint16 = 0x12
	KeyLeftSuper    uint16 = 0x5B
	KeyRightSuper   uint16 = 0x5C

	// KeySynthetic is reported by samplers that can only observe "some key
	// was pressed" without a code.
	KeySynthetic uint16 = 0x00
)

// modifierKeys never count as activity on their own.
var modifierKeys = map[uint16]bool{
	KeyShift:      true,
	KeyControl:    true,
	KeyAlt:        true,
	KeyLeftSuper:  true,
	KeyRightSuper: true,
}

// Point is an absolute pointer position in screen coordinates.
type Point struct {
	X, Y int32
}

// Sample is one poll snapshot. It is never retained beyond the current and
// previous poll.
type Sample struct {
	Pointer   Point
	PointerOK bool
	Keys      map[uint16]bool
	Timestamp time.Time
}

// pressed reports the held state of a key, absent meaning released.
func (s Sample) pressed(code uint16) bool {
	return s.Keys[code]
}

// buttonHeld reports whether any mouse button is down in the sample.
func (s Sample) buttonHeld() bool {
	return s.pressed(KeyLeftButton) || s.pressed(KeyRightButton) || s.pressed(KeyMiddleButton)
}

// Sampler captures one input snapshot. Implementations are best-effort and
// synchronous; an error means "no sample this tick".
type Sampler interface {
	// Sample captures the current pointer and key state.
	Sample() (Sample, error)

	// Available reports whether sampling works on this platform with the
	// current permissions, with a human-readable reason.
	Available() (bool, string)
}

// Stats are cumulative monitor counters.
type Stats struct {
	Samples    uint64 `json:"samples"`
	Dropped    uint64 `json:"dropped"`
	Activities uint64 `json:"activities"`
}

// Monitor turns raw samples into discrete activity notifications. It is
// passive: the owner calls Poll at the poll cadence; Detected/Reset/Trip are
// safe from other goroutines.
type Monitor struct {
	sampler Sampler
	logger  *slog.Logger

	mu       sync.Mutex
	prev     Sample
	havePrev bool

	detected   atomic.Bool
	samples    atomic.Uint64
	dropped    atomic.Uint64
	activities atomic.Uint64
}

// NewMonitor creates a monitor over the given sampler.
func NewMonitor(sampler Sampler, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		sampler: sampler,
		logger:  logger.With("component", "input"),
	}
}

// Poll takes one sample and updates the activity flag. A sampler error drops
// the tick; the previous snapshot is kept so the next successful sample still
// edge-triggers correctly.
func (m *Monitor) Poll(now time.Time) {
	sample, err := m.sampler.Sample()
	if err != nil {
		m.dropped.Add(1)
		return
	}
	sample.Timestamp = now
	m.samples.Add(1)

	m.mu.Lock()
	prev, havePrev := m.prev, m.havePrev
	m.prev, m.havePrev = sample, true
	m.mu.Unlock()

	if !havePrev {
		return
	}

	if m.qualifies(prev, sample) {
		m.trip("poll")
	}
}

// qualifies applies the activity rules to a pair of consecutive samples.
func (m *Monitor) qualifies(prev, cur Sample) bool {
	// Click-qualified pointer displacement.
	if prev.PointerOK && cur.PointerOK && prev.Pointer != cur.Pointer && cur.buttonHeld() {
		return true
	}

	// Edge-triggered key press, modifiers and mouse buttons excluded.
	for code, down := range cur.Keys {
		if !down || prev.pressed(code) {
			continue
		}
		if modifierKeys[code] {
			continue
		}
		switch code {
		case KeyLeftButton, KeyRightButton, KeyMiddleButton:
			continue
		}
		return true
	}
	return false
}

// Detected reports whether activity occurred since the last Reset.
func (m *Monitor) Detected() bool {
	return m.detected.Load()
}

// Reset clears the activity flag. Consumers call this when they start a
// fresh observation window.
func (m *Monitor) Reset() {
	m.detected.Store(false)
}

// Trip raises the activity flag from an external source, such as an event
// delivered to one of our own windows or an IPC interrupt request.
func (m *Monitor) Trip() {
	m.trip("external")
}

func (m *Monitor) trip(source string) {
	if !m.detected.Swap(true) {
		m.activities.Add(1)
		m.logger.Debug("user activity detected", "source", source)
	}
}

// LastPointer returns the most recent pointer position, false when none has
// been captured yet.
func (m *Monitor) LastPointer() (Point, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.havePrev || !m.prev.PointerOK {
		return Point{}, false
	}
	return m.prev.Pointer, true
}

// Available reports whether the underlying sampler works here.
func (m *Monitor) Available() (bool, string) {
	return m.sampler.Available()
}

// Stats returns cumulative counters.
func (m *Monitor) Stats() Stats {
	return Stats{
		Samples:    m.samples.Load(),
		Dropped:    m.dropped.Load(),
		Activities: m.activities.Load(),
	}
}

// New returns a monitor backed by the platform sampler.
func New(logger *slog.Logger) *Monitor {
	return NewMonitor(newPlatformSampler(), logger)
}
