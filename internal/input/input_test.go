package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollAll(m *Monitor, n int) {
	now := time.Now()
	for i := 0; i < n; i++ {
		m.Poll(now.Add(time.Duration(i) * DefaultPollInterval))
	}
}

func TestKeyPressEdgeTriggered(t *testing.T) {
	sampler := NewScriptedSampler(
		&Sample{Keys: KeysDown()},
		&Sample{Keys: KeysDown(0x41)}, // press
		&Sample{Keys: KeysDown(0x41)}, // held, no new edge
	)
	m := NewMonitor(sampler, nil)

	m.Poll(time.Now())
	assert.False(t, m.Detected(), "first sample has no predecessor")

	m.Poll(time.Now())
	assert.True(t, m.Detected(), "press transition must trip")

	m.Reset()
	m.Poll(time.Now())
	assert.False(t, m.Detected(), "a held key is not a new press")
}

func TestModifiersNeverCount(t *testing.T) {
	sampler := NewScriptedSampler(
		&Sample{Keys: KeysDown()},
		&Sample{Keys: KeysDown(KeyShift)},
		&Sample{Keys: KeysDown(KeyShift, KeyControl, KeyAlt, KeyLeftSuper, KeyRightSuper)},
	)
	m := NewMonitor(sampler, nil)
	pollAll(m, 3)
	assert.False(t, m.Detected())
}

func TestMouseButtonsAloneDoNotCount(t *testing.T) {
	sampler := NewScriptedSampler(
		&Sample{Pointer: Point{X: 10, Y: 10}, PointerOK: true, Keys: KeysDown()},
		&Sample{Pointer: Point{X: 10, Y: 10}, PointerOK: true, Keys: KeysDown(KeyLeftButton)},
	)
	m := NewMonitor(sampler, nil)
	pollAll(m, 2)
	assert.False(t, m.Detected(), "a click without movement is not activity")
}

func TestClickQualifiedMovement(t *testing.T) {
	sampler := NewScriptedSampler(
		&Sample{Pointer: Point{X: 10, Y: 10}, PointerOK: true, Keys: KeysDown()},
		// Drift without a button held: not activity.
		&Sample{Pointer: Point{X: 50, Y: 50}, PointerOK: true, Keys: KeysDown()},
		// Movement while dragging: activity.
		&Sample{Pointer: Point{X: 60, Y: 60}, PointerOK: true, Keys: KeysDown(KeyLeftButton)},
	)
	m := NewMonitor(sampler, nil)

	pollAll(m, 2)
	assert.False(t, m.Detected(), "unqualified drift must not trip")

	m.Poll(time.Now())
	assert.True(t, m.Detected(), "drag must trip")
}

func TestFailedSampleDropsTick(t *testing.T) {
	sampler := NewScriptedSampler(
		&Sample{Keys: KeysDown()},
		nil, // OS query failure
		&Sample{Keys: KeysDown(0x42)},
	)
	m := NewMonitor(sampler, nil)
	pollAll(m, 3)

	assert.True(t, m.Detected(), "edge across a dropped tick still counts")
	stats := m.Stats()
	assert.Equal(t, uint64(2), stats.Samples)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, uint64(1), stats.Activities)
}

func TestTripAndReset(t *testing.T) {
	m := NewMonitor(NewScriptedSampler(), nil)

	assert.False(t, m.Detected())
	m.Trip()
	assert.True(t, m.Detected(), "external trip raises the flag")
	assert.True(t, m.Detected(), "flag is level-set, not edge")
	m.Reset()
	assert.False(t, m.Detected())
}

func TestLastPointer(t *testing.T) {
	sampler := NewScriptedSampler(
		&Sample{Pointer: Point{X: 7, Y: 9}, PointerOK: true, Keys: KeysDown()},
	)
	m := NewMonitor(sampler, nil)

	_, ok := m.LastPointer()
	assert.False(t, ok, "no pointer before the first sample")

	m.Poll(time.Now())
	pos, ok := m.LastPointer()
	require.True(t, ok)
	assert.Equal(t, Point{X: 7, Y: 9}, pos)
}

func TestStationaryHideOnce(t *testing.T) {
	d := NewStationaryDetector(100*time.Millisecond, 2000*time.Millisecond)
	pos := Point{X: 5, Y: 5}

	assert.Equal(t, PointerNone, d.Observe(pos, true), "first fix only records")

	// 19 further still observations accumulate 1900ms: under threshold.
	for i := 0; i < 19; i++ {
		assert.Equal(t, PointerNone, d.Observe(pos, true))
	}

	// The 20th crosses 2000ms and fires exactly once.
	assert.Equal(t, PointerHide, d.Observe(pos, true))
	assert.True(t, d.Hidden())
	assert.Equal(t, PointerNone, d.Observe(pos, true), "hide must not re-fire")
}

func TestStationaryShowImmediately(t *testing.T) {
	d := NewStationaryDetector(100*time.Millisecond, 200*time.Millisecond)
	pos := Point{X: 5, Y: 5}

	d.Observe(pos, true)
	d.Observe(pos, true)
	require.Equal(t, PointerHide, d.Observe(pos, true))

	assert.Equal(t, PointerShow, d.Observe(Point{X: 6, Y: 5}, true))
	assert.False(t, d.Hidden())
}

func TestStationaryFailedFixSkipped(t *testing.T) {
	d := NewStationaryDetector(100*time.Millisecond, 200*time.Millisecond)
	pos := Point{X: 5, Y: 5}

	d.Observe(pos, true)
	d.Observe(pos, true)
	// Failed fixes do not advance the stationary clock.
	assert.Equal(t, PointerNone, d.Observe(Point{}, false))
	assert.Equal(t, PointerNone, d.Observe(Point{}, false))
	assert.Equal(t, PointerHide, d.Observe(pos, true))
}

func TestStationaryReset(t *testing.T) {
	d := NewStationaryDetector(100*time.Millisecond, 200*time.Millisecond)
	pos := Point{X: 5, Y: 5}

	d.Observe(pos, true)
	d.Observe(pos, true)
	require.Equal(t, PointerHide, d.Observe(pos, true))

	d.Reset()
	assert.False(t, d.Hidden())
	assert.Equal(t, PointerNone, d.Observe(pos, true), "after reset the first fix only records")
}
