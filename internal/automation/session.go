package automation

import (
	"time"

	"github.com/google/uuid"

	"lessond/internal/board"
)

// State is the engine's confirmation-window state.
type State int

const (
	// StateIdle means no confirmation window is open.
	StateIdle State = iota

	// StateArmed means a confirmation window is open and the commit
	// deadline is running.
	StateArmed
)

// String returns a short name for the state.
func (s State) String() string {
	if s == StateArmed {
		return "armed"
	}
	return "idle"
}

// Rule is one automation rule, keyed by lesson name.
type Rule struct {
	// Lesson is the subject name the rule fires for.
	Lesson string

	// Offset selects the trigger condition in seconds: positive fires
	// after that much time into the lesson, non-positive fires when at
	// most that many seconds remain.
	Offset int

	// IgnoreInterrupt makes the engine commit even when user activity is
	// seen during the wait window.
	IgnoreInterrupt bool

	// Target is the mode to switch to.
	Target board.Mode
}

// Elapsed reports whether the rule is an elapsed-time trigger.
func (r Rule) Elapsed() bool {
	return r.Offset > 0
}

// Ruleset maps lesson names to their rule.
type Ruleset map[string]Rule

// Session is the engine's per-lesson bookkeeping. Exactly one live session
// exists for the currently reported lesson name; it is discarded when the
// name changes.
type Session struct {
	ID        string
	Lesson    string
	StartedAt time.Time

	// Triggered guarantees at most one fire per lesson occupancy.
	Triggered bool

	State State

	// Armed bookkeeping, meaningful while State == StateArmed.
	rule     Rule
	deadline time.Time

	// Deferred notice chain after a successful interruption. Zero times
	// mean no pending step.
	noticeShowAt  time.Time
	noticeCloseAt time.Time
}

func newSession(lesson string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Lesson:    lesson,
		StartedAt: now,
	}
}
