package power

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// sysfsProbe reads /sys/class/power_supply directly. It is the fallback
// source on Linux and also refines the AC-online flag when the battery
// interface is ambiguous. On other platforms the globs simply never match.
type sysfsProbe struct {
	root string
}

func newSysfsProbe() *sysfsProbe {
	return &sysfsProbe{root: "/sys/class/power_supply"}
}

func (s *sysfsProbe) readFirst(glob string) (string, bool) {
	matches, _ := filepath.Glob(filepath.Join(s.root, glob))
	for _, p := range matches {
		if b, err := os.ReadFile(p); err == nil {
			return strings.TrimSpace(string(b)), true
		}
	}
	return "", false
}

func (s *sysfsProbe) acOnline() (bool, error) {
	// Adapter naming varies across vendors.
	for _, glob := range []string{"AC*/online", "ACAD*/online", "ADP*/online"} {
		if v, ok := s.readFirst(glob); ok {
			return v == "1", nil
		}
	}

	// No adapter device; infer from battery status.
	if v, ok := s.readFirst("BAT*/status"); ok {
		switch v {
		case "Charging", "Full", "Not charging":
			return true, nil
		default:
			return false, nil
		}
	}

	return false, pkgerrors.New("no power supply entries found")
}

func (s *sysfsProbe) batteryPercent() (int, error) {
	v, ok := s.readFirst("BAT*/capacity")
	if !ok {
		return 0, pkgerrors.New("no battery capacity entry found")
	}

	pct, err := strconv.Atoi(v)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "malformed battery capacity %q", v)
	}

	return pct, nil
}
