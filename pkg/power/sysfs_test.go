package power

import (
	"os"
	"path/filepath"
	"testing"
)

// writeSysfsTree lays out a fake /sys/class/power_supply under a temp dir.
func writeSysfsTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
		if err := os.WriteFile(p, []byte(content+"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

func TestSysfsACOnline(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    bool
		wantErr bool
	}{
		{
			name:  "adapter online",
			files: map[string]string{"AC/online": "1"},
			want:  true,
		},
		{
			name:  "adapter offline",
			files: map[string]string{"AC/online": "0"},
			want:  false,
		},
		{
			name:  "vendor ACAD naming",
			files: map[string]string{"ACAD/online": "1"},
			want:  true,
		},
		{
			name:  "no adapter, charging battery implies AC",
			files: map[string]string{"BAT0/status": "Charging"},
			want:  true,
		},
		{
			name:  "no adapter, not-charging battery implies AC",
			files: map[string]string{"BAT0/status": "Not charging"},
			want:  true,
		},
		{
			name:  "no adapter, discharging battery",
			files: map[string]string{"BAT0/status": "Discharging"},
			want:  false,
		},
		{
			name:    "empty tree",
			files:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sysfsProbe{root: writeSysfsTree(t, tt.files)}
			got, err := s.acOnline()
			if (err != nil) != tt.wantErr {
				t.Fatalf("acOnline() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("acOnline() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestSysfsBatteryPercent(t *testing.T) {
	s := &sysfsProbe{root: writeSysfsTree(t, map[string]string{"BAT0/capacity": "87"})}
	pct, err := s.batteryPercent()
	if err != nil {
		t.Fatalf("batteryPercent() error = %v", err)
	}
	if pct != 87 {
		t.Errorf("batteryPercent() = %d, want 87", pct)
	}

	s = &sysfsProbe{root: writeSysfsTree(t, map[string]string{"BAT0/capacity": "bogus"})}
	if _, err := s.batteryPercent(); err == nil {
		t.Error("malformed capacity should error")
	}

	s = &sysfsProbe{root: t.TempDir()}
	if _, err := s.batteryPercent(); err == nil {
		t.Error("missing capacity entry should error")
	}
}
