package input

import "time"

// PointerSignal is the output of the stationary-pointer detector.
type PointerSignal int

const (
	// PointerNone means nothing changed this observation.
	PointerNone PointerSignal = iota

	// PointerHide fires once when the pointer has sat still past the hide
	// delay.
	PointerHide

	// PointerShow fires as soon as a hidden pointer moves again.
	PointerShow
)

// StationaryDetector accumulates time since the pointer last moved. It feeds
// cursor auto-hide in overlay modes and is independent of button state and
// of the activity monitor's interrupt path.
//
// The detector is passive: the owner calls Observe at the stationary poll
// cadence with the latest pointer fix. A failed fix (ok == false) is skipped
// without advancing the stationary clock.
type StationaryDetector struct {
	interval  time.Duration
	hideDelay time.Duration

	last       Point
	haveLast   bool
	stationary time.Duration
	hidden     bool
}

// NewStationaryDetector creates a detector with the given observation
// cadence and hide threshold. Zero values fall back to the defaults.
func NewStationaryDetector(interval, hideDelay time.Duration) *StationaryDetector {
	if interval <= 0 {
		interval = DefaultStationaryInterval
	}
	if hideDelay <= 0 {
		hideDelay = DefaultHideDelay
	}
	return &StationaryDetector{interval: interval, hideDelay: hideDelay}
}

// Observe feeds one pointer fix and returns the signal to act on.
func (d *StationaryDetector) Observe(pos Point, ok bool) PointerSignal {
	if !ok {
		return PointerNone
	}

	if !d.haveLast {
		d.last = pos
		d.haveLast = true
		return PointerNone
	}

	if pos != d.last {
		d.last = pos
		d.stationary = 0
		if d.hidden {
			d.hidden = false
			return PointerShow
		}
		return PointerNone
	}

	d.stationary += d.interval
	if d.stationary >= d.hideDelay && !d.hidden {
		d.hidden = true
		return PointerHide
	}
	return PointerNone
}

// Hidden reports whether the detector currently considers the pointer
// hidden.
func (d *StationaryDetector) Hidden() bool {
	return d.hidden
}

// Reset clears all accumulated state, used when overlays close.
func (d *StationaryDetector) Reset() {
	d.last = Point{}
	d.haveLast = false
	d.stationary = 0
	d.hidden = false
}
