// Package tray is an optional menubar companion for the battwarn daemon. It
// runs as its own process and only talks to the daemon over the control
// socket, so the daemon never depends on it.
package tray

import (
	"context"
	"fmt"
	"time"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/battwarn/battwarn/pkg/client"
)

const pollInterval = 5 * time.Second

var apiClient *client.Client

// Run blocks inside the systray event loop. Must be called on the main
// goroutine.
func Run(socketPath string) {
	apiClient = client.NewClient(socketPath)
	systray.Run(onReady, onExit)
}

func onReady() {
	systray.SetTitle("🔋 Loading...")
	systray.SetTooltip("battwarn - Low Battery Monitor")

	mStatus := systray.AddMenuItem("Status: Connecting...", "Current battery status")
	mStatus.Disable()

	mThreshold := systray.AddMenuItem("Threshold: -", "Warning threshold")
	mThreshold.Disable()

	systray.AddSeparator()

	mDismiss := systray.AddMenuItem("Dismiss Warning", "Close the warning overlay if it is visible")
	mQuit := systray.AddMenuItem("Quit", "Quit the tray app (the daemon keeps running)")

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		for {
			select {
			case <-mDismiss.ClickedCh:
				if _, err := apiClient.Dismiss(); err != nil {
					logrus.Errorf("failed to dismiss warning: %v", err)
				}
			case <-mQuit.ClickedCh:
				cancel()
				systray.Quit()
				return
			}
		}
	}()

	// Events make updates prompt; polling below covers daemon restarts.
	go func() {
		for range apiClient.SubscribeEvents(ctx) {
			updateStatus(mStatus, mThreshold)
		}
	}()

	go func() {
		for {
			updateStatus(mStatus, mThreshold)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
		}
	}()
}

func onExit() {
	logrus.Info("battwarn tray exiting")
}

func updateStatus(mStatus, mThreshold *systray.MenuItem) {
	st, err := apiClient.GetStatus()
	if err != nil {
		systray.SetTitle("🚫 Offline")
		mStatus.SetTitle("Status: Disconnected")
		mThreshold.SetTitle("Threshold: -")
		logrus.Debugf("cannot connect to daemon: %v", err)
		return
	}

	icon := "🔋"
	state := "On battery"
	if st.ACOnline {
		icon = "⚡️"
		state = "On AC power"
	}
	if st.WarningVisible {
		icon = "⚠️"
		state = fmt.Sprintf("%s (%s)", state, "warning shown")
	}

	systray.SetTitle(fmt.Sprintf("%s %d%%", icon, st.Percent))
	mStatus.SetTitle(fmt.Sprintf("Status: %s", state))
	mThreshold.SetTitle(fmt.Sprintf("Threshold: %d%%", st.Threshold))
}
