package overlay

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond for up to a second.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// fakeLoop emulates the persistent window event loop without a display:
// parked until a Show request arrives, presented until a close request or a
// simulated click on the dismiss control.
type fakeLoop struct {
	c        *Controller
	presents atomic.Int32
	clicks   chan struct{}
	fail     error
}

func newFakeLoop(c *Controller) *fakeLoop {
	f := &fakeLoop{c: c, clicks: make(chan struct{}, 1)}
	c.runWindow = f.run
	return f
}

func (f *fakeLoop) run(_ *window) error {
	if f.fail != nil {
		return f.fail
	}

	shown := false
	for {
		if f.c.shuttingDown() {
			if shown {
				f.c.reset()
			}
			return nil
		}

		if !shown {
			if f.c.takeRequest() {
				shown = true
				f.presents.Add(1)
			}
		} else {
			clicked := false
			select {
			case <-f.clicks:
				clicked = true
			default:
			}
			if clicked || f.c.closeRequested() {
				shown = false
				f.c.dismissed()
			}
		}

		time.Sleep(time.Millisecond)
	}
}

func TestShowIsIdempotentAndReshows(t *testing.T) {
	c := New(nil, nil)
	loop := newFakeLoop(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.Show()
	waitFor(t, "overlay to become visible", c.Visible)
	c.Show()
	c.Show()

	c.Close()
	waitFor(t, "overlay to close", func() bool { return !c.Visible() })

	if got := loop.presents.Load(); got != 1 {
		t.Errorf("expected exactly 1 presentation, got %d", got)
	}

	// The same loop must serve every later warning.
	c.Show()
	waitFor(t, "overlay to re-show", c.Visible)
	if got := loop.presents.Load(); got != 2 {
		t.Errorf("expected a 2nd presentation after re-show, got %d", got)
	}

	cancel()
	<-done
}

func TestCloseWithoutShowIsNoop(t *testing.T) {
	c := New(nil, nil)
	c.Close()
	if c.Visible() {
		t.Error("Close on a hidden overlay must not make it visible")
	}
	if c.closeRequested() {
		t.Error("Close on a hidden overlay must not latch a close request")
	}
}

func TestDismissalCallback(t *testing.T) {
	tests := []struct {
		name       string
		userCloses bool
		wantUser   bool
	}{
		{"programmatic close", false, false},
		{"user dismissal", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser atomic.Bool
			var called atomic.Int32

			c := New(nil, func(userInitiated bool) {
				gotUser.Store(userInitiated)
				called.Add(1)
			})
			loop := newFakeLoop(c)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go c.Run(ctx)

			c.Show()
			waitFor(t, "overlay to become visible", c.Visible)
			if tt.userCloses {
				loop.clicks <- struct{}{}
			} else {
				c.Close()
			}
			waitFor(t, "dismissal callback", func() bool { return called.Load() == 1 })

			if c.Visible() {
				t.Error("overlay must not be visible after dismissal")
			}
			if gotUser.Load() != tt.wantUser {
				t.Errorf("userInitiated = %t, want %t", gotUser.Load(), tt.wantUser)
			}
		})
	}
}

func TestCloseRacingDismissalDoesNotCancelNextWindow(t *testing.T) {
	// A condition close can race a user dismissal of the same window. In
	// either order the close must not survive into the next warning.
	t.Run("close latched before teardown", func(t *testing.T) {
		c := New(nil, nil)
		c.Show()
		c.Close()
		c.dismissed() // the window tears down, swallowing the latched close

		c.Show()
		if c.closeRequested() {
			t.Error("stale close request leaked into the next window")
		}
	})

	t.Run("close after teardown", func(t *testing.T) {
		c := New(nil, nil)
		c.Show()
		c.dismissed() // the user clicked first
		c.Close()     // the condition close arrives late, overlay already hidden

		c.Show()
		if c.closeRequested() {
			t.Error("stale close request leaked into the next window")
		}
	})
}

func TestWindowLoopFailureResetsVisibility(t *testing.T) {
	c := New(nil, func(bool) {
		t.Error("dismissal callback must not fire when the window loop failed")
	})
	loop := newFakeLoop(c)
	loop.fail = context.DeadlineExceeded // any error will do

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Show()
	waitFor(t, "visibility reset after loop failure", func() bool { return !c.Visible() })

	// Later ticks keep getting a coherent answer.
	c.Show()
	waitFor(t, "visibility reset on retry", func() bool { return !c.Visible() })
}

func TestContextCancelClosesOpenWindow(t *testing.T) {
	c := New(nil, nil)
	newFakeLoop(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.Show()
	waitFor(t, "overlay to become visible", c.Visible)

	// Shutdown while the warning is on screen: the loop must tear down
	// before Run returns.
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	if c.Visible() {
		t.Error("overlay still visible after shutdown")
	}
}
