// Package overlay owns the low-battery warning window. At most one window is
// ever on screen; Show and Close are idempotent and safe to call from any
// goroutine while the window event loop itself stays on the main thread.
package overlay

import (
	"context"
	"image"
	"sync"

	"github.com/sirupsen/logrus"
)

// Controller coordinates the warning window lifecycle. The sampling loop
// commands it asynchronously: Show queues a presentation, Close signals the
// presented window to park again. The window event loop (Run) observes both,
// so the sampler is never blocked while the warning is visible.
//
// The GUI toolkit allows starting its game loop only once per process, so Run
// hosts a single persistent loop and the same window is re-presented for
// every warning, parked minimized in between.
type Controller struct {
	mu      sync.Mutex
	visible bool
	closing bool

	requests chan struct{}
	ctx      context.Context

	img         image.Image
	onDismissed func(userInitiated bool)

	// runWindow is swappable in tests so the lifecycle can be exercised
	// without a display.
	runWindow func(*window) error
}

// New creates a Controller. img may be nil, in which case the window renders
// text only. onDismissed, if non-nil, fires exactly once per presented
// warning, after the visibility flag has been cleared; userInitiated is false
// when the teardown was commanded via Close.
func New(img image.Image, onDismissed func(userInitiated bool)) *Controller {
	c := &Controller{
		requests:    make(chan struct{}, 1),
		img:         img,
		onDismissed: onDismissed,
	}
	c.runWindow = c.runEbitenWindow
	return c
}

// Visible reports whether a warning is currently up (or queued to appear).
// This is the flag the monitor derives its state branch from.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.visible
}

// Show queues the warning window. No-op if one is already visible.
func (c *Controller) Show() {
	c.mu.Lock()
	if c.visible {
		c.mu.Unlock()
		return
	}
	c.visible = true
	c.closing = false
	c.mu.Unlock()

	select {
	case c.requests <- struct{}{}:
	default:
		// A request is already queued; the window loop will present it.
	}
}

// Close signals the presented window to park. No-op if nothing is visible.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.visible {
		c.closing = true
	}
	c.mu.Unlock()
}

// Run hosts the window event loop until ctx is cancelled. It must be called
// on the main goroutine: the GUI toolkit requires the main OS thread, and its
// game loop may only be started once per process.
func (c *Controller) Run(ctx context.Context) {
	c.ctx = ctx

	if err := c.runWindow(newWindow(c, c.img)); err != nil {
		// The loop could not be hosted at all (e.g. no display). Keep the
		// flags coherent so the monitor can keep evaluating.
		logrus.Errorf("warning window loop failed: %v", err)
		c.drainRequests(ctx)
	}
}

// drainRequests stands in for the window loop when none is available: every
// queued warning is marked dismissed right away.
func (c *Controller) drainRequests(ctx context.Context) {
	c.reset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.requests:
			c.reset()
		}
	}
}

// takeRequest reports whether a queued Show should present the window now.
// Polled by the parked window every frame.
func (c *Controller) takeRequest() bool {
	select {
	case <-c.requests:
		return true
	default:
		return false
	}
}

// dismissed finalizes one warning teardown. The close latch and the
// visibility flag are cleared in a single critical section with Close, so a
// condition close racing a user dismissal of the same window can never leak
// into the next one.
func (c *Controller) dismissed() {
	c.mu.Lock()
	userInitiated := !c.closing
	c.closing = false
	c.visible = false
	c.mu.Unlock()

	if c.onDismissed != nil {
		c.onDismissed(userInitiated)
	}
}

// reset clears the flags without firing the dismissal callback. Used on
// shutdown, where the monitor publishes its own event.
func (c *Controller) reset() {
	c.mu.Lock()
	c.visible = false
	c.closing = false
	c.mu.Unlock()
}

// closeRequested is polled by the presented window every frame.
func (c *Controller) closeRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closing
}

// shuttingDown reports whether the hosting context is gone.
func (c *Controller) shuttingDown() bool {
	return c.ctx != nil && c.ctx.Err() != nil
}
