package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/battwarn/battwarn/pkg/config"
	"github.com/battwarn/battwarn/pkg/events"
	"github.com/battwarn/battwarn/pkg/monitor"
	"github.com/battwarn/battwarn/pkg/overlay"
	"github.com/battwarn/battwarn/pkg/power"
)

type staticProvider struct {
	status power.Status
	err    error
}

func (p *staticProvider) Sample() (power.Status, error) {
	return p.status, p.err
}

func setupTestDaemon(t *testing.T, p power.Provider) *gin.Engine {
	t.Helper()

	var err error
	conf, err = config.New(30*time.Second, 35, "unused.png")
	if err != nil {
		t.Fatalf("config.New failed: %v", err)
	}

	provider = p
	hub = events.NewHub()
	ctrl = overlay.New(nil, nil)
	mon = monitor.New(conf, provider, ctrl, hub)

	return setupRoutes()
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	router.ServeHTTP(w, req)
	return w
}

func TestGetStatus(t *testing.T) {
	router := setupTestDaemon(t, &staticProvider{status: power.Status{Percent: 72, ACOnline: true}})

	w := doRequest(router, http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /status = %d, want 200", w.Code)
	}

	var st StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if st.Percent != 72 || !st.ACOnline {
		t.Errorf("status = %+v", st)
	}
	if st.WarningVisible {
		t.Error("no warning should be visible")
	}
	if st.Threshold != 35 {
		t.Errorf("threshold = %d, want 35", st.Threshold)
	}
}

func TestGetStatusUnavailable(t *testing.T) {
	router := setupTestDaemon(t, &staticProvider{err: power.ErrUnavailable})

	w := doRequest(router, http.MethodGet, "/status", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /status = %d, want 503", w.Code)
	}
}

func TestSetThreshold(t *testing.T) {
	router := setupTestDaemon(t, &staticProvider{status: power.Status{Percent: 90, ACOnline: true}})

	tests := []struct {
		body     string
		wantCode int
	}{
		{"40", http.StatusCreated},
		{"101", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
		{"\"forty\"", http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := doRequest(router, http.MethodPut, "/threshold", tt.body)
		if w.Code != tt.wantCode {
			t.Errorf("PUT /threshold %s = %d, want %d", tt.body, w.Code, tt.wantCode)
		}
	}

	if conf.Threshold() != 40 {
		t.Errorf("threshold = %d, want 40", conf.Threshold())
	}
}

func TestSetInterval(t *testing.T) {
	router := setupTestDaemon(t, &staticProvider{status: power.Status{Percent: 90, ACOnline: true}})

	if w := doRequest(router, http.MethodPut, "/interval", "0"); w.Code != http.StatusBadRequest {
		t.Errorf("PUT /interval 0 = %d, want 400", w.Code)
	}
	if w := doRequest(router, http.MethodPut, "/interval", "60"); w.Code != http.StatusCreated {
		t.Errorf("PUT /interval 60 = %d, want 201", w.Code)
	}
	if conf.CheckInterval() != 60*time.Second {
		t.Errorf("interval = %v, want 60s", conf.CheckInterval())
	}
}

func TestDismissWithoutWarning(t *testing.T) {
	router := setupTestDaemon(t, &staticProvider{status: power.Status{Percent: 90, ACOnline: true}})

	w := doRequest(router, http.MethodPost, "/dismiss", "")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /dismiss = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no warning visible") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetVersion(t *testing.T) {
	router := setupTestDaemon(t, &staticProvider{status: power.Status{Percent: 90, ACOnline: true}})

	w := doRequest(router, http.MethodGet, "/version", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /version = %d, want 200", w.Code)
	}
}
