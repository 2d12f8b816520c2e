package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battwarn/battwarn/pkg/config"
	"github.com/battwarn/battwarn/pkg/daemon"
	"github.com/battwarn/battwarn/pkg/version"
)

var (
	checkIntervalSeconds = int(config.DefaultCheckInterval.Seconds())
	threshold            = config.DefaultThreshold
	imagePath            = ""
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run the battwarn daemon in the foreground",
		GroupID: gBasic,
		RunE: func(_ *cobra.Command, _ []string) error {
			conf, err := config.New(
				time.Duration(checkIntervalSeconds)*time.Second,
				threshold,
				imagePath,
			)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("battwarn daemon starting")

			return daemon.Run(conf, unixSocketPath)
		},
	}

	f := cmd.Flags()
	f.IntVar(&checkIntervalSeconds, "check-interval", checkIntervalSeconds,
		"Seconds between battery samples.")
	f.IntVar(&threshold, "threshold", threshold,
		"Battery percentage (1-100) below which the warning is shown while on battery.")
	f.StringVar(&imagePath, "image", imagePath,
		"Path to the warning image (PNG). Defaults to battwarn.png next to the executable; a placeholder is synthesized when missing.")

	return cmd
}
