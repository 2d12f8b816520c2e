package power

import (
	"math"

	"github.com/distatus/battery"
	"github.com/sirupsen/logrus"
)

var _ Provider = &SystemProvider{}

// SystemProvider queries the platform battery interface via distatus/battery
// and falls back to a direct power-supply probe on hosts without a battery
// device (typically desktops).
type SystemProvider struct {
	// getAll is swappable in tests.
	getAll func() ([]*battery.Battery, error)
	probe  *sysfsProbe
}

func NewSystemProvider() *SystemProvider {
	return &SystemProvider{
		getAll: battery.GetAll,
		probe:  newSysfsProbe(),
	}
}

func (p *SystemProvider) Sample() (Status, error) {
	batteries, err := p.getAll()
	if err != nil {
		// distatus returns partial errors per device; only give up on the
		// primary source if nothing usable came back at all.
		if len(batteries) == 0 {
			logrus.Debugf("battery interface query failed: %v", err)
			return p.fallback()
		}
		logrus.Debugf("battery interface returned partial errors: %v", err)
	}

	st, ok := statusFromBatteries(batteries)
	if !ok {
		return p.fallback()
	}

	// The battery interface cannot always tell "plugged in but idle" from
	// "unknown". Let the power-supply probe refine the AC flag if it can.
	if ac, err := p.probe.acOnline(); err == nil {
		st.ACOnline = ac
	}

	return st, nil
}

// fallback handles hosts without a queryable battery. If the AC probe works,
// the host is effectively desktop-class: report full and online so the
// monitor never warns.
func (p *SystemProvider) fallback() (Status, error) {
	ac, err := p.probe.acOnline()
	if err != nil {
		return Status{}, ErrUnavailable
	}

	st := Status{Percent: 100, ACOnline: ac}
	if pct, err := p.probe.batteryPercent(); err == nil {
		st.Percent = pct
	}

	return st, nil
}

// statusFromBatteries reduces the battery list to a single Status. Multiple
// batteries report the combined charge; the host is "on AC" unless some
// battery is draining.
func statusFromBatteries(batteries []*battery.Battery) (Status, bool) {
	var current, full float64
	discharging := false
	usable := 0

	for _, bat := range batteries {
		if bat == nil || bat.Full <= 0 {
			continue
		}
		usable++
		current += bat.Current
		full += bat.Full
		if bat.State == battery.Discharging || bat.State == battery.Empty {
			discharging = true
		}
	}

	if usable == 0 || full <= 0 {
		return Status{}, false
	}

	pct := int(math.Round(current / full * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	return Status{Percent: pct, ACOnline: !discharging}, true
}
