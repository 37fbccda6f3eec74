// Package automation arms and commits mode transitions tied to lesson names.
//
// The engine is a two-state machine (idle, armed). When a rule's trigger
// condition is met it opens a cancellable confirmation window; unless
// qualifying user activity arrives before the deadline, the mode transition
// commits. One session exists per reported lesson name, and a rule fires at
// most once per lesson occupancy.
//
// The engine is driven synchronously by its owner: Evaluate at the host
// update tick, Poll at the input poll cadence. It never spawns timers of its
// own, so teardown is deterministic - after Shutdown nothing can fire.
package automation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lessond/internal/board"
	"lessond/internal/tracking"
)

// Config carries the engine's wait-window timing.
type Config struct {
	// ConfirmDelay is how long the confirmation window stays open before
	// the transition commits.
	ConfirmDelay time.Duration

	// InterruptNoticeDelay is the pause between closing the confirmation
	// window on interruption and showing the "interrupted" notice.
	InterruptNoticeDelay time.Duration

	// NoticeDuration is how long the "interrupted" notice stays up.
	NoticeDuration time.Duration
}

// DefaultConfig returns the reference timing.
func DefaultConfig() Config {
	return Config{
		ConfirmDelay:         5000 * time.Millisecond,
		InterruptNoticeDelay: 300 * time.Millisecond,
		NoticeDuration:       3000 * time.Millisecond,
	}
}

// ModeController commits mode transitions. Transition must be idempotent
// when the mode is already active.
type ModeController interface {
	Mode() board.Mode
	Transition(board.Mode)
}

// Window is the confirmation window collaborator. All calls are
// fire-and-forget.
type Window interface {
	Show(message string, mode board.Mode)
	UpdateText(message string)
	Close()
}

// ActivitySource is the level-set activity flag of the input monitor.
type ActivitySource interface {
	Detected() bool
	Reset()
}

// Status is a read-only snapshot for status reporting.
type Status struct {
	Lesson    string    `json:"lesson,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	State     string    `json:"state"`
	Triggered bool      `json:"triggered"`
	Deadline  time.Time `json:"deadline,omitempty"`
	Armed     uint64    `json:"armed_total"`
	Committed uint64    `json:"committed_total"`
	Cancelled uint64    `json:"cancelled_total"`
	Skipped   uint64    `json:"skipped_total"`
}

// Engine is the automation state machine.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	rules    Ruleset
	modes    ModeController
	window   Window
	activity ActivitySource
	logger   *slog.Logger

	session  *Session
	shutdown bool

	armed     uint64
	committed uint64
	cancelled uint64
	skipped   uint64
}

// New creates an engine. A nil ruleset is valid; automation then never
// fires until SetRules supplies one.
func New(cfg Config, rules Ruleset, modes ModeController, window Window, activity ActivitySource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ConfirmDelay <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		cfg:      cfg,
		rules:    rules,
		modes:    modes,
		window:   window,
		activity: activity,
		logger:   logger.With("component", "automation"),
	}
}

// SetRules swaps the rule table, used on config reload. The live session is
// kept: a reload does not re-fire a lesson that already triggered.
func (e *Engine) SetRules(rules Ruleset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = rules
	e.logger.Info("automation rules updated", "rules", len(rules))
}

// Evaluate runs once per host update tick with the reported lesson name
// (empty when absent) and the tracker's time info (nil when unavailable).
func (e *Engine) Evaluate(now time.Time, lesson string, info *tracking.Info) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return
	}

	if e.session == nil || e.session.Lesson != lesson {
		e.onLessonChanged(lesson, now)
	}

	s := e.session
	if s == nil || s.Triggered || s.State != StateIdle {
		return
	}

	rule, ok := e.rules[s.Lesson]
	if !ok {
		return
	}

	fire, reason := e.shouldFire(rule, s, now, info)
	if !fire {
		return
	}

	// Already in the target mode: mark the lesson done without prompting.
	if e.modes.Mode() == rule.Target {
		s.Triggered = true
		e.skipped++
		e.logger.Debug("already in target mode, automation skipped",
			"lesson", s.Lesson, "mode", rule.Target.String())
		return
	}

	// Activity earlier in the lesson suppresses an interruptible rule
	// before any window opens.
	if !rule.IgnoreInterrupt && e.activity.Detected() {
		s.Triggered = true
		e.skipped++
		e.logger.Info("automation suppressed by prior user activity", "lesson", s.Lesson)
		return
	}

	e.arm(s, rule, now, reason)
}

func (e *Engine) shouldFire(rule Rule, s *Session, now time.Time, info *tracking.Info) (bool, string) {
	if rule.Elapsed() {
		elapsed := now.Sub(s.StartedAt)
		if elapsed >= time.Duration(rule.Offset)*time.Second {
			return true, fmt.Sprintf("elapsed %s >= %ds", elapsed.Truncate(time.Second), rule.Offset)
		}
		return false, ""
	}

	// Remaining-time trigger: without time info it can never fire.
	if info == nil {
		return false, ""
	}
	limit := -rule.Offset
	if info.Remaining <= limit {
		return true, fmt.Sprintf("remaining %ds <= %ds", info.Remaining, limit)
	}
	return false, ""
}

func (e *Engine) arm(s *Session, rule Rule, now time.Time, reason string) {
	s.rule = rule
	s.deadline = now.Add(e.cfg.ConfirmDelay)
	s.State = StateArmed
	s.noticeShowAt = time.Time{}
	s.noticeCloseAt = time.Time{}
	e.armed++

	// Only activity inside the wait window counts from here on.
	e.activity.Reset()

	e.window.Show(confirmMessage(rule.Target), rule.Target)
	e.logger.Info("automation armed",
		"lesson", s.Lesson,
		"session", s.ID,
		"mode", rule.Target.String(),
		"reason", reason,
		"deadline", s.deadline)
}

// Poll runs at the input poll cadence. While armed it checks for
// interruption before the deadline so that a tie between an activity sample
// and the deadline resolves as a cancellation; absence of activity has to
// hold across the whole window, not at one instant.
func (e *Engine) Poll(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown || e.session == nil {
		return
	}
	s := e.session

	// Deferred notice chain after an interruption.
	if !s.noticeShowAt.IsZero() && !now.Before(s.noticeShowAt) {
		s.noticeShowAt = time.Time{}
		s.noticeCloseAt = now.Add(e.cfg.NoticeDuration)
		e.window.Show(noticeMessage, board.ModeNone)
	}
	if !s.noticeCloseAt.IsZero() && !now.Before(s.noticeCloseAt) {
		s.noticeCloseAt = time.Time{}
		e.window.Close()
	}

	if s.State != StateArmed {
		return
	}

	if e.activity.Detected() {
		if s.rule.IgnoreInterrupt {
			e.logger.Debug("user activity ignored, rule requires commit", "lesson", s.Lesson)
		} else {
			e.cancel(s, now)
			return
		}
	}

	if !now.Before(s.deadline) {
		e.commit(s)
	}
}

func (e *Engine) cancel(s *Session, now time.Time) {
	e.window.Close()
	s.State = StateIdle
	s.Triggered = true
	s.noticeShowAt = now.Add(e.cfg.InterruptNoticeDelay)
	e.cancelled++
	e.logger.Info("automation interrupted by user activity",
		"lesson", s.Lesson, "session", s.ID)
}

func (e *Engine) commit(s *Session) {
	e.modes.Transition(s.rule.Target)
	e.window.Close()
	s.State = StateIdle
	s.Triggered = true
	e.committed++
	e.logger.Info("automation committed",
		"lesson", s.Lesson, "session", s.ID, "mode", s.rule.Target.String())
}

// onLessonChanged discards the previous session, aborting an open window
// without committing, and starts a fresh one for the new name. An empty name
// leaves no session.
func (e *Engine) onLessonChanged(lesson string, now time.Time) {
	if prev := e.session; prev != nil {
		if prev.State == StateArmed || !prev.noticeCloseAt.IsZero() || !prev.noticeShowAt.IsZero() {
			e.window.Close()
		}
		if prev.State == StateArmed {
			e.logger.Info("automation aborted by lesson change",
				"lesson", prev.Lesson, "session", prev.ID)
		}
	}

	if lesson == "" {
		e.session = nil
		return
	}

	e.session = newSession(lesson, now)
	e.activity.Reset()
	e.logger.Info("lesson changed", "lesson", lesson, "session", e.session.ID)
}

// Shutdown tears the engine down: any open window closes, all pending
// deadlines are discarded, and no transition can fire afterwards.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return
	}
	if s := e.session; s != nil && (s.State == StateArmed || !s.noticeShowAt.IsZero() || !s.noticeCloseAt.IsZero()) {
		e.window.Close()
	}
	e.session = nil
	e.shutdown = true
	e.logger.Info("automation engine shut down")
}

// Snapshot returns the current status for reporting.
func (e *Engine) Snapshot() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		State:     StateIdle.String(),
		Armed:     e.armed,
		Committed: e.committed,
		Cancelled: e.cancelled,
		Skipped:   e.skipped,
	}
	if s := e.session; s != nil {
		st.Lesson = s.Lesson
		st.SessionID = s.ID
		st.State = s.State.String()
		st.Triggered = s.Triggered
		if s.State == StateArmed {
			st.Deadline = s.deadline
		}
	}
	return st
}

const noticeMessage = "Automation cancelled"

func confirmMessage(target board.Mode) string {
	switch target {
	case board.ModeBlackboard:
		return "Switching to blackboard mode shortly, press any key to cancel"
	case board.ModeWhiteboard:
		return "Switching to whiteboard mode shortly, press any key to cancel"
	default:
		return "Closing overlay mode shortly, press any key to cancel"
	}
}
