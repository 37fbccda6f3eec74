// Package daemon wires the components together and runs the update loop.
//
// All scheduling lives in one goroutine: the host tick, the activity poll
// and the stationary-pointer poll are cases of a single select, so every
// component sees strictly ordered calls and teardown is a plain return.
// Concurrency exists only at the edges (control socket, file watcher), and
// those edges only touch components through their locked entry points.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lessond/internal/automation"
	"lessond/internal/board"
	"lessond/internal/config"
	"lessond/internal/display"
	"lessond/internal/input"
	"lessond/internal/ipc"
	"lessond/internal/metrics"
	"lessond/internal/schedule"
	"lessond/internal/timeline"
	"lessond/internal/tracking"
)

// Version is stamped at build time.
var Version = "dev"

// Daemon owns every component and the update loop.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	registry  *metrics.Registry
	timetable *schedule.Timetable
	modes     *board.Controller
	model     *display.Model
	window    *display.NoticeWindow
	monitor   *input.Monitor
	pointer   *input.StationaryDetector
	engine    *automation.Engine
	server    *ipc.Server

	mu       sync.Mutex
	tomorrow config.TomorrowSpec

	startedAt time.Time
	lastStats input.Stats

	// stop ends the run loop, used by the shutdown request.
	stop context.CancelFunc
}

// New builds a daemon from its configuration. The timetable is loaded once
// at startup; a missing or invalid timetable is fatal, because without it
// the widget has nothing to show.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	timetable, err := schedule.Load(cfg.Schedule.Path)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		logger:    logger.With("component", "daemon"),
		registry:  metrics.NewRegistry(),
		timetable: timetable,
		modes:     board.NewController(logger),
		model:     display.NewModel(),
		monitor:   input.New(logger),
		pointer:   input.NewStationaryDetector(cfg.StationaryInterval(), cfg.HideDelay()),
	}
	d.window = display.NewNoticeWindow(d.model, logger)

	engineCfg := automation.Config{
		ConfirmDelay:         time.Duration(cfg.Automation.ConfirmDelayMs) * time.Millisecond,
		InterruptNoticeDelay: time.Duration(cfg.Automation.InterruptNoticeDelayMs) * time.Millisecond,
		NoticeDuration:       time.Duration(cfg.Automation.NoticeDurationMs) * time.Millisecond,
	}
	d.engine = automation.New(engineCfg, nil, d.modes, d.window, d.monitor, logger)
	d.server = ipc.NewServer(cfg.IPC.SocketPath, &handler{d: d}, logger)

	if ok, reason := d.monitor.Available(); !ok {
		d.logger.Warn("input sampling degraded", "reason", reason)
	}
	return d, nil
}

// Run drives the daemon until ctx is cancelled or a shutdown request
// arrives.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	d.stop = cancel
	d.startedAt = time.Now()

	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	if err := d.reloadRules(); err != nil {
		d.logger.Warn("initial rules load failed", "error", err)
	}

	changes, err := config.Watch(ctx, d.cfg.Automation.RulesPath,
		time.Duration(d.cfg.Automation.ReloadDebounceMs)*time.Millisecond, d.logger)
	if err != nil {
		d.logger.Warn("rules watch unavailable", "error", err)
		changes = nil
	}

	tick := time.NewTicker(d.cfg.TickInterval())
	defer tick.Stop()
	poll := time.NewTicker(d.cfg.PollInterval())
	defer poll.Stop()
	stationary := time.NewTicker(d.cfg.StationaryInterval())
	defer stationary.Stop()

	d.logger.Info("daemon running",
		"version", Version,
		"schedule", d.cfg.Schedule.Path,
		"rules", d.cfg.Automation.RulesPath)

	for {
		select {
		case <-ctx.Done():
			d.engine.Shutdown()
			d.logger.Info("daemon stopping")
			return nil

		case now := <-tick.C:
			d.onTick(now)

		case now := <-poll.C:
			d.onPoll(now)

		case <-stationary.C:
			d.onStationary()

		case <-changes:
			if err := d.reloadRules(); err != nil {
				d.logger.Warn("rules reload failed", "error", err)
			}
		}
	}
}

// onTick runs the once-a-second update: resolve the timetable, refresh the
// countdown display, and give the automation engine its lesson context.
func (d *Daemon) onTick(now time.Time) {
	d.registry.Inc(metrics.MetricTicks)

	sctx, ok := schedule.ContextAt(d.timetable, now)
	if !ok {
		d.blank(now)
		d.updateTomorrow(now)
		d.publishStats()
		return
	}

	info, ok := tracking.Compute(sctx.Table, sctx.Anchor, now)
	if !ok {
		d.blank(now)
		d.updateTomorrow(now)
		d.publishStats()
		return
	}

	highlight := sctx.HighlightName(now)
	d.model.SetTimes(info, highlight)
	d.registry.SetGauge(metrics.MetricGaugeProgress, int64(info.ProgressPercent()))
	d.registry.SetGauge(metrics.MetricGaugeRemaining, int64(info.Remaining))

	// Automation keys on occupancy of an actual lesson, not on the
	// highlight, which also points at upcoming lessons during breaks.
	lesson := ""
	if !info.NotStarted && info.Kind == timeline.KindLesson {
		lesson = sctx.Subjects[info.ID]
	}
	d.engine.Evaluate(now, lesson, &info)

	d.model.SetMode(d.modes.Mode())
	d.updateTomorrow(now)
	d.publishStats()
}

// blank clears the countdown and tells the engine no lesson is active.
func (d *Daemon) blank(now time.Time) {
	d.registry.Inc(metrics.MetricResolveMisses)
	d.model.Blank()
	d.model.SetMode(d.modes.Mode())
	d.engine.Evaluate(now, "", nil)
	d.registry.SetGauge(metrics.MetricGaugeProgress, 0)
	d.registry.SetGauge(metrics.MetricGaugeRemaining, 0)
}

// onPoll runs the fast loop: one input sample and one engine deadline check.
func (d *Daemon) onPoll(now time.Time) {
	d.registry.Inc(metrics.MetricInputPolls)
	d.monitor.Poll(now)
	d.engine.Poll(now)
}

// onStationary feeds the pointer auto-hide detector.
func (d *Daemon) onStationary() {
	pos, ok := d.monitor.LastPointer()
	switch d.pointer.Observe(pos, ok) {
	case input.PointerHide:
		d.model.SetPointerHidden(true)
		d.registry.Inc(metrics.MetricPointerHides)
		d.logger.Debug("pointer hidden")
	case input.PointerShow:
		d.model.SetPointerHidden(false)
		d.registry.Inc(metrics.MetricPointerShows)
		d.logger.Debug("pointer shown")
	}
}

// updateTomorrow publishes or clears the tomorrow-course preview.
func (d *Daemon) updateTomorrow(now time.Time) {
	d.mu.Lock()
	spec := d.tomorrow
	d.mu.Unlock()

	if schedule.ShouldShowTomorrow(d.timetable, spec, now) {
		d.model.SetTomorrow(schedule.TomorrowCourses(d.timetable, now))
	} else {
		d.model.SetTomorrow(nil)
	}
}

// publishStats mirrors monitor counters into the registry.
func (d *Daemon) publishStats() {
	stats := d.monitor.Stats()
	d.registry.Add(metrics.MetricInputDropped, stats.Dropped-d.lastStats.Dropped)
	d.lastStats = stats

	armed := int64(0)
	if d.engine.Snapshot().State == "armed" {
		armed = 1
	}
	d.registry.SetGauge(metrics.MetricGaugeArmed, armed)
}

// reloadRules loads the rules file and swaps the engine's table.
func (d *Daemon) reloadRules() error {
	data, err := config.LoadAutomationData(d.cfg.Automation.RulesPath)
	if err != nil {
		return err
	}

	rules := automation.BuildRuleset(data, d.logger)
	d.engine.SetRules(rules)

	d.mu.Lock()
	d.tomorrow = data.TomorrowCourse
	d.mu.Unlock()

	d.registry.Inc(metrics.MetricRuleReloads)
	d.registry.SetGauge(metrics.MetricGaugeRuleCount, int64(len(rules)))
	return nil
}

// ruleCount reports the engine's current rule count for the reload reply.
func (d *Daemon) ruleCount() int {
	return int(d.registry.Gauge(metrics.MetricGaugeRuleCount))
}
