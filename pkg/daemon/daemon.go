// Package daemon wires the monitor, the overlay and the control API together
// and owns process lifecycle: signals, teardown order, guaranteed overlay
// cleanup.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battwarn/battwarn/pkg/config"
	"github.com/battwarn/battwarn/pkg/events"
	"github.com/battwarn/battwarn/pkg/monitor"
	"github.com/battwarn/battwarn/pkg/overlay"
	"github.com/battwarn/battwarn/pkg/power"
	"github.com/battwarn/battwarn/pkg/warnimg"
)

var (
	conf     *config.Memory
	provider power.Provider
	ctrl     *overlay.Controller
	mon      *monitor.Monitor
	hub      *events.Hub
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", getStatus)
	router.GET("/config", getConfig)
	router.PUT("/threshold", setThreshold)
	router.PUT("/interval", setInterval)
	router.POST("/dismiss", postDismiss)
	router.GET("/events", getEvents)
	router.GET("/version", getVersion)

	return router
}

// Run starts the daemon and blocks until SIGINT/SIGTERM. It must be called on
// the main goroutine: the overlay window loop runs here while the sampler and
// the API server run on their own goroutines.
func Run(c *config.Memory, unixSocketPath string) error {
	conf = c
	logrus.WithFields(conf.LogrusFields()).Info("config loaded")

	hub = events.NewHub()
	provider = power.NewSystemProvider()

	img, fromDisk, err := warnimg.LoadOrPlaceholder(conf.ImagePath())
	if err != nil {
		logrus.Warnf("warning image unusable, using placeholder: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"path":     conf.ImagePath(),
		"fromDisk": fromDisk,
	}).Debug("warning image ready")

	ctrl = overlay.New(img, func(userInitiated bool) {
		if !userInitiated {
			// Condition- and API-triggered closes publish their own events.
			return
		}
		logrus.Info("warning dismissed by user")
		hub.Publish(events.WarningDismissed, events.WarningDismissedEvent{
			Reason: events.ReasonUser,
			Ts:     time.Now().Unix(),
		})
	})

	mon = monitor.New(conf, provider, ctrl, hub)

	router := setupRoutes()
	srv := &http.Server{Handler: router}

	// A stale socket from a crashed run would make Listen fail.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove stale socket %s", unixSocketPath)
	}
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}

	go func() {
		logrus.Infof("control api listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())

	monDone := make(chan struct{})
	go func() {
		logrus.Debugln("monitor loop starts")
		mon.Run(ctx)
		close(monDone)
	}()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigc
		logrus.Infof("caught signal %q: shutting down", sig)
		cancel()
	}()

	// Blocks until ctx is cancelled; hosts every warning window in between.
	ctrl.Run(ctx)

	// Belt and braces: the monitor also closes on exit, but no window may
	// outlive the process.
	ctrl.Close()
	<-monDone

	logrus.Info("shutting down control api")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("failed to shutdown control api: %v", err)
	}
	shutdownCancel()
	_ = l.Close()

	logrus.Info("exiting")
	return nil
}
