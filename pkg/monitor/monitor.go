// Package monitor drives the sampling loop: poll the power status on a fixed
// interval, compare against the threshold, and command the overlay. The loop
// keeps only one piece of derived state, the overlay visibility flag, so what
// is on screen and what the loop believes can never drift apart.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battwarn/battwarn/pkg/config"
	"github.com/battwarn/battwarn/pkg/events"
	"github.com/battwarn/battwarn/pkg/power"
)

// OverlayController is the slice of the overlay the monitor needs.
type OverlayController interface {
	Show()
	Close()
	Visible() bool
}

// Monitor runs the Normal/Warning state machine, one evaluation per tick.
type Monitor struct {
	conf     config.Config
	provider power.Provider
	overlay  OverlayController
	hub      *events.Hub

	// tickLock serializes evaluation rounds: the control API can trigger a
	// tick concurrently with the timer loop.
	tickLock sync.Mutex

	recorder   *TickRecorder
	lastStatus power.Status
	hasLast    bool
}

func New(conf config.Config, provider power.Provider, overlay OverlayController, hub *events.Hub) *Monitor {
	return &Monitor{
		conf:     conf,
		provider: provider,
		overlay:  overlay,
		hub:      hub,
		recorder: NewTickRecorder(60),
	}
}

// Run loops until ctx is cancelled. On exit the overlay is closed
// unconditionally so no orphaned window survives the process.
func (m *Monitor) Run(ctx context.Context) {
	defer func() {
		if m.overlay.Visible() {
			m.hub.Publish(events.WarningDismissed, events.WarningDismissedEvent{
				Reason: events.ReasonShutdown,
				Ts:     time.Now().Unix(),
			})
		}
		m.overlay.Close()
	}()

	for {
		m.Tick()

		// Re-read the interval every round; it can change via the API.
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.conf.CheckInterval()):
		}
	}
}

// Tick performs one sample-evaluate-act round. Rounds never overlap, no
// matter who triggers them.
func (m *Monitor) Tick() {
	m.tickLock.Lock()
	defer m.tickLock.Unlock()

	status, err := m.provider.Sample()
	if err != nil {
		// Not fatal; the next tick may succeed.
		logrus.Warnf("power status unavailable, skipping tick: %v", err)
		return
	}

	m.recorder.AddRecordNow()
	m.checkMissedTicks()

	threshold := m.conf.Threshold()
	m.printStatus(status, threshold)

	// The Warning state is implicit in overlay visibility.
	if m.overlay.Visible() {
		switch {
		case status.ACOnline:
			logrus.WithFields(logrus.Fields{
				"percent": status.Percent,
			}).Info("AC power restored, dismissing warning")
			m.publishDismissed(events.ReasonACOnline, status.Percent)
			m.overlay.Close()
		case status.Percent >= threshold:
			logrus.WithFields(logrus.Fields{
				"percent":   status.Percent,
				"threshold": threshold,
			}).Info("battery charge recovered, dismissing warning")
			m.publishDismissed(events.ReasonRecovered, status.Percent)
			m.overlay.Close()
		}
		return
	}

	if status.Percent < threshold && !status.ACOnline {
		logrus.WithFields(logrus.Fields{
			"percent":   status.Percent,
			"threshold": threshold,
		}).Info("battery below threshold on battery power, showing warning")
		m.hub.Publish(events.WarningShown, events.WarningShownEvent{
			Percent:   status.Percent,
			Threshold: threshold,
			Ts:        time.Now().Unix(),
		})
		m.overlay.Show()
	}
}

func (m *Monitor) publishDismissed(reason string, percent int) {
	m.hub.Publish(events.WarningDismissed, events.WarningDismissedEvent{
		Reason:  reason,
		Percent: percent,
		Ts:      time.Now().Unix(),
	})
}

// checkMissedTicks logs when the recent tick history has gaps, which happens
// after system sleep. Reports whether a gap was flagged.
func (m *Monitor) checkMissedTicks() bool {
	interval := m.conf.CheckInterval()
	window := 8*interval + 20*time.Second // slack so a single slow tick does not trip it

	expected := int(window / interval)
	if m.recorder.Len() < expected {
		// Too little history to judge; right after startup every tick
		// would look like a gap.
		return false
	}

	got := m.recorder.ContinuousIn(window, interval)
	if got >= expected-1 {
		return false
	}

	recent := m.recorder.RecentSince(window)
	ages := make([]string, 0, len(recent))
	for _, t := range recent {
		ages = append(ages, time.Since(t).String())
	}
	logrus.WithFields(logrus.Fields{
		"continuousTicks": got,
		"expectedTicks":   expected,
		"recentTickAges":  ages,
	}).Info("possibly missed sampling ticks (system sleep?)")

	return true
}

// printStatus writes the per-tick status line. Repeats of an identical sample
// are demoted to debug so an idle machine does not flood the log.
func (m *Monitor) printStatus(status power.Status, threshold int) {
	entry := logrus.WithFields(logrus.Fields{
		"percent":   status.Percent,
		"acOnline":  status.ACOnline,
		"threshold": threshold,
		"warning":   m.overlay.Visible(),
	})

	msg := "battery status"
	if m.hasLast && m.lastStatus == status {
		entry.Debug(msg)
	} else {
		entry.Info(msg)
	}

	m.lastStatus = status
	m.hasLast = true
}
