package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultCheckInterval is how often the battery is sampled.
	DefaultCheckInterval = 30 * time.Second
	// DefaultThreshold is the battery percentage below which the warning
	// is shown. Note: an earlier incarnation of this tool shipped with a
	// default of 101, which can never fire; values above 100 are rejected.
	DefaultThreshold = 35
	// DefaultImageName is looked up next to the executable.
	DefaultImageName = "battwarn.png"
)

var _ Config = &Memory{}

// Memory is an in-memory Config seeded from flags.
type Memory struct {
	mu            sync.RWMutex
	checkInterval time.Duration
	threshold     int
	imagePath     string
}

// New validates the given settings and returns a Memory config.
// An empty imagePath resolves to DefaultImageName next to the executable.
func New(checkInterval time.Duration, threshold int, imagePath string) (*Memory, error) {
	if checkInterval < time.Second {
		return nil, pkgerrors.Errorf("check interval must be at least 1s, got %s", checkInterval)
	}
	if threshold < 1 || threshold > 100 {
		return nil, pkgerrors.Errorf("threshold must be between 1 and 100, got %d", threshold)
	}

	if imagePath == "" {
		exe, err := os.Executable()
		if err != nil {
			logrus.Warnf("cannot locate executable, using relative image path: %v", err)
			imagePath = DefaultImageName
		} else {
			imagePath = filepath.Join(filepath.Dir(exe), DefaultImageName)
		}
	}

	return &Memory{
		checkInterval: checkInterval,
		threshold:     threshold,
		imagePath:     imagePath,
	}, nil
}

func (m *Memory) CheckInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.checkInterval
}

func (m *Memory) Threshold() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.threshold
}

func (m *Memory) ImagePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.imagePath
}

func (m *Memory) SetCheckInterval(d time.Duration) error {
	if d < time.Second {
		return pkgerrors.Errorf("check interval must be at least 1s, got %s", d)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkInterval = d

	return nil
}

func (m *Memory) SetThreshold(t int) error {
	if t < 1 || t > 100 {
		return pkgerrors.Errorf("threshold must be between 1 and 100, got %d", t)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = t

	return nil
}

// LogrusFields returns the settings as structured log fields.
func (m *Memory) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"checkInterval": m.CheckInterval().String(),
		"threshold":     m.Threshold(),
		"imagePath":     m.ImagePath(),
	}
}
