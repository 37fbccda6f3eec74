package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessond/internal/timeline"
)

func mustClock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", "2026-03-02 "+hhmm)
	require.NoError(t, err)
	return ts
}

func morning(t *testing.T) (timeline.Table, timeline.Anchor) {
	t.Helper()
	table := timeline.Table{
		"a00": 45,
		"f01": 10,
		"a02": 45,
	}
	return table, timeline.Anchor{Node: 0, Start: mustClock(t, "08:00")}
}

func TestComputeActive(t *testing.T) {
	table, anchor := morning(t)

	// 20 minutes into the first lesson.
	info, ok := Compute(table, anchor, mustClock(t, "08:20"))
	require.True(t, ok)
	assert.Equal(t, timeline.ActivityID("a00"), info.ID)
	assert.Equal(t, timeline.KindLesson, info.Kind)
	assert.False(t, info.NotStarted)
	assert.Equal(t, 45*60, info.Total)
	assert.Equal(t, 25*60, info.Remaining)

	// In the break.
	info, ok = Compute(table, anchor, mustClock(t, "08:50"))
	require.True(t, ok)
	assert.Equal(t, timeline.KindBreak, info.Kind)
	assert.Equal(t, 10*60, info.Total)
	assert.Equal(t, 5*60, info.Remaining)
}

func TestComputePending(t *testing.T) {
	table, anchor := morning(t)

	info, ok := Compute(table, anchor, mustClock(t, "07:58"))
	require.True(t, ok)
	assert.True(t, info.NotStarted)
	assert.Equal(t, timeline.KindBreak, info.Kind)
	assert.Equal(t, 2*60, info.Remaining)
	assert.Equal(t, 100, info.ProgressPercent())
}

func TestComputeAfterNode(t *testing.T) {
	table, anchor := morning(t)
	_, ok := Compute(table, anchor, mustClock(t, "09:40"))
	assert.False(t, ok)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, Info{Total: 2700, Remaining: 2700}.ProgressPercent())
	assert.Equal(t, 50, Info{Total: 2700, Remaining: 1350}.ProgressPercent())
	assert.Equal(t, 100, Info{Total: 2700, Remaining: 0}.ProgressPercent())
	// Rounds to nearest.
	assert.Equal(t, 33, Info{Total: 300, Remaining: 200}.ProgressPercent())
	// Degenerate totals never divide by zero.
	assert.Equal(t, 0, Info{Total: 0, Remaining: 0}.ProgressPercent())
}

func TestDisplayRounding(t *testing.T) {
	// A minute or more rounds up to whole minutes.
	assert.Equal(t, Countdown{Value: 2, Unit: UnitMinutes}, Info{Remaining: 61}.Display())
	assert.Equal(t, Countdown{Value: 1, Unit: UnitMinutes}, Info{Remaining: 60}.Display())
	assert.Equal(t, Countdown{Value: 45, Unit: UnitMinutes}, Info{Remaining: 45 * 60}.Display())

	// Under a minute shows seconds and never displays zero.
	assert.Equal(t, Countdown{Value: 59, Unit: UnitSeconds}, Info{Remaining: 59}.Display())
	assert.Equal(t, Countdown{Value: 1, Unit: UnitSeconds}, Info{Remaining: 1}.Display())
	assert.Equal(t, Countdown{Value: 1, Unit: UnitSeconds}, Info{Remaining: 0}.Display())
}

func TestCountdownString(t *testing.T) {
	assert.Equal(t, "< 5 min", Countdown{Value: 5, Unit: UnitMinutes}.String())
	assert.Equal(t, "< 30 s", Countdown{Value: 30, Unit: UnitSeconds}.String())
}
