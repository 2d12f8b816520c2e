package monitor

import (
	"testing"
	"time"
)

func TestTickRecorder_ContinuousIn(t *testing.T) {
	interval := time.Second * 10

	tests := []struct {
		name  string
		ticks []time.Time
		last  time.Duration
		want  int
	}{
		{
			name: "noncontinuous ticks",
			ticks: []time.Time{
				time.Now().Add(-time.Second * 31).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 10).Add(-10 * time.Millisecond),
			},
			last: time.Second * 40,
			want: 2,
		},
		{
			name: "continuous run stops at the gap",
			ticks: []time.Time{
				time.Now().Add(-time.Second * 70).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 60).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 40).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 30).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 10).Add(-10 * time.Millisecond),
			},
			last: time.Second * 50,
			want: 4,
		},
		{
			name: "stale last tick yields zero",
			ticks: []time.Time{
				time.Now().Add(-time.Second * 70).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 60).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 40).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 30).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 15).Add(-10 * time.Millisecond),
			},
			last: time.Second * 50,
			want: 0,
		},
		{
			name:  "empty recorder",
			ticks: nil,
			last:  time.Minute,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTickRecorder(10)
			for _, tick := range tt.ticks {
				r.AddRecord(tick)
			}
			if got := r.ContinuousIn(tt.last, interval); got != tt.want {
				t.Errorf("ContinuousIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickRecorder_Capacity(t *testing.T) {
	r := NewTickRecorder(3)
	base := time.Now().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		r.AddRecord(base.Add(time.Duration(i) * time.Second))
	}

	got := r.RecentSince(2 * time.Minute)
	if len(got) != 3 {
		t.Fatalf("expected 3 retained ticks, got %d", len(got))
	}
	// Newest first.
	if !got[0].After(got[1]) || !got[1].After(got[2]) {
		t.Errorf("RecentSince not ordered newest first: %v", got)
	}
}
