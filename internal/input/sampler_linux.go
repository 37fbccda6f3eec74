//go:build linux

package input

import (
	"errors"
	"time"

	"github.com/godbus/dbus/v5"
)

// linuxSampler derives key activity from the desktop idle counter over
// D-Bus. Compositors expose session idle time (GNOME via Mutter's
// IdleMonitor, KDE and others via org.freedesktop.ScreenSaver); an idle
// counter that shrinks between two polls means the user produced input.
//
// The pointer position is not observable this way, so pointer-based
// activity and the stationary detector degrade gracefully on Linux: key
// activity is reported as the synthetic key code, pointer fixes are absent.
type linuxSampler struct {
	conn *dbus.Conn

	queryIdle func() (time.Duration, error)
	backend   string

	lastIdle time.Duration
	haveIdle bool
}

func newPlatformSampler() Sampler {
	s := &linuxSampler{}

	conn, err := dbus.SessionBus()
	if err != nil {
		return s
	}
	s.conn = conn

	// Mutter reports milliseconds, the ScreenSaver interface seconds.
	mutter := conn.Object("org.gnome.Mutter.IdleMonitor", "/org/gnome/Mutter/IdleMonitor/Core")
	if call := mutter.Call("org.gnome.Mutter.IdleMonitor.GetIdletime", 0); call.Err == nil {
		s.backend = "mutter"
		s.queryIdle = func() (time.Duration, error) {
			var ms uint64
			if err := mutter.Call("org.gnome.Mutter.IdleMonitor.GetIdletime", 0).Store(&ms); err != nil {
				return 0, err
			}
			return time.Duration(ms) * time.Millisecond, nil
		}
		return s
	}

	saver := conn.Object("org.freedesktop.ScreenSaver", "/org/freedesktop/ScreenSaver")
	if call := saver.Call("org.freedesktop.ScreenSaver.GetSessionIdleTime", 0); call.Err == nil {
		s.backend = "screensaver"
		s.queryIdle = func() (time.Duration, error) {
			var sec uint32
			if err := saver.Call("org.freedesktop.ScreenSaver.GetSessionIdleTime", 0).Store(&sec); err != nil {
				return 0, err
			}
			return time.Duration(sec) * time.Second, nil
		}
	}
	return s
}

// Available reports whether an idle backend answered.
func (l *linuxSampler) Available() (bool, string) {
	if l.queryIdle == nil {
		return false, "no D-Bus idle monitor on the session bus"
	}
	return true, "D-Bus idle monitor (" + l.backend + ")"
}

// Sample reports a synthetic key press when the idle counter reset since the
// previous poll.
func (l *linuxSampler) Sample() (Sample, error) {
	if l.queryIdle == nil {
		return Sample{}, errors.New("idle monitor unavailable")
	}

	idle, err := l.queryIdle()
	if err != nil {
		return Sample{}, err
	}

	sample := Sample{
		Keys:      map[uint16]bool{},
		Timestamp: time.Now(),
	}

	if l.haveIdle && idle < l.lastIdle {
		sample.Keys[KeySynthetic] = true
	}
	l.lastIdle = idle
	l.haveIdle = true

	return sample, nil
}
