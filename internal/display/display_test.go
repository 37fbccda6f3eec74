package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lessond/internal/board"
	"lessond/internal/timeline"
	"lessond/internal/tracking"
)

func TestModelTimes(t *testing.T) {
	m := NewModel()

	info := tracking.Info{
		ID:        "a00",
		Kind:      timeline.KindLesson,
		Total:     2700,
		Remaining: 1350,
	}
	m.SetTimes(info, "Math")

	s := m.Snapshot()
	assert.Equal(t, "Math", s.Highlight)
	assert.Equal(t, "< 23 min", s.Countdown)
	assert.Equal(t, 50, s.Progress)
	assert.Equal(t, 1350, s.Remaining)
	assert.Equal(t, "lesson", s.Activity)
	assert.False(t, s.Pending)

	m.Blank()
	s = m.Snapshot()
	assert.Empty(t, s.Highlight)
	assert.Empty(t, s.Countdown)
	assert.Zero(t, s.Progress)
}

func TestModelPending(t *testing.T) {
	m := NewModel()
	m.SetTimes(tracking.Info{
		Kind:       timeline.KindBreak,
		NotStarted: true,
		Remaining:  120,
	}, "Math")

	s := m.Snapshot()
	assert.True(t, s.Pending)
	assert.Equal(t, 100, s.Progress)
	assert.Equal(t, "< 2 min", s.Countdown)
}

func TestModelModeAndPointer(t *testing.T) {
	m := NewModel()
	assert.Equal(t, "none", m.Snapshot().Mode)

	m.SetMode(board.ModeBlackboard)
	m.SetPointerHidden(true)

	s := m.Snapshot()
	assert.Equal(t, "blackboard", s.Mode)
	assert.True(t, s.PointerHidden)
}

func TestModelTomorrow(t *testing.T) {
	m := NewModel()
	m.SetTomorrow([]string{"Art", "Music"})
	assert.Equal(t, []string{"Art", "Music"}, m.Snapshot().Tomorrow)

	m.SetTomorrow(nil)
	assert.Empty(t, m.Snapshot().Tomorrow)
}

func TestNoticeWindow(t *testing.T) {
	m := NewModel()
	w := NewNoticeWindow(m, nil)

	w.Show("switching shortly", board.ModeBlackboard)
	s := m.Snapshot()
	assert.True(t, s.WindowOpen)
	assert.Equal(t, "switching shortly", s.WindowText)

	w.UpdateText("3 seconds left")
	assert.Equal(t, "3 seconds left", m.Snapshot().WindowText)

	w.Close()
	s = m.Snapshot()
	assert.False(t, s.WindowOpen)
	assert.Empty(t, s.WindowText)
}
