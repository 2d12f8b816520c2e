package monitor

import (
	"sync"
	"time"
)

// TickRecorder remembers when the last N sampling ticks ran. The daemon is
// paused wholesale during system sleep, so a gap between adjacent ticks larger
// than the check interval means ticks were missed and the first samples after
// wake-up may be stale.
type TickRecorder struct {
	maxRecords int
	ticks      []time.Time
	mu         sync.Mutex
}

func NewTickRecorder(maxRecords int) *TickRecorder {
	return &TickRecorder{
		maxRecords: maxRecords,
		ticks:      make([]time.Time, 0, maxRecords),
	}
}

// Len returns the number of recorded ticks.
func (r *TickRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.ticks)
}

// AddRecordNow records a tick at the current time.
func (r *TickRecorder) AddRecordNow() {
	r.AddRecord(time.Now())
}

// AddRecord records a tick at t.
func (r *TickRecorder) AddRecord(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.ticks) >= r.maxRecords {
		r.ticks = r.ticks[1:]
	}
	// Round strips the monotonic clock reading, which stops ticking during
	// system sleep and would make the gap math lie after wake-up.
	r.ticks = append(r.ticks, t.Round(0))
}

// ContinuousIn returns how many ticks within the last duration form an
// unbroken run ending now. Two ticks belong to the same run when they are at
// most interval+1s apart.
func (r *TickRecorder) ContinuousIn(last, interval time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.ticks) > 0 && time.Since(r.ticks[len(r.ticks)-1]) >= interval+time.Second {
		return 0
	}

	count := 0
	for i := len(r.ticks) - 1; i >= 0; i-- {
		tick := r.ticks[i]
		if time.Since(tick) > last {
			break
		}

		next := tick
		if i+1 < len(r.ticks) {
			next = r.ticks[i+1]
		}
		if next.Sub(tick) >= interval+time.Second {
			break
		}
		count++
	}

	return count
}

// RecentSince returns the recorded ticks within the last duration, newest
// first.
func (r *TickRecorder) RecentSince(last time.Duration) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []time.Time
	for i := len(r.ticks) - 1; i >= 0; i-- {
		if time.Since(r.ticks[i]) > last {
			break
		}
		out = append(out, r.ticks[i])
	}

	return out
}
