package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battwarn/battwarn/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewDismissCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dismiss",
		Short:   "Dismiss the warning overlay",
		GroupID: gBasic,
		Long: `Dismiss the warning overlay if it is currently visible.

This has the same effect as clicking the dismiss button on the overlay.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.Dismiss()
			if err != nil {
				return fmt.Errorf("failed to dismiss warning: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			return nil
		},
	}
}

func NewThresholdCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "threshold [percentage]",
		Short:   "Set the warning threshold",
		GroupID: gAdvanced,
		Long: `Set the battery percentage below which the warning is shown while on battery.

This is a percentage from 1 to 100.`,
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := parseIntArg(args, "threshold")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetThreshold(t)
			if err != nil {
				return fmt.Errorf("failed to set threshold: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set warning threshold to %d%%", t)

			return nil
		},
	}
}

func NewIntervalCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interval [seconds]",
		Short:   "Set the check interval",
		GroupID: gAdvanced,
		Long:    `Set how many seconds the daemon waits between battery samples.`,
		RunE: func(_ *cobra.Command, args []string) error {
			secs, err := parseIntArg(args, "interval")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetCheckInterval(secs)
			if err != nil {
				return fmt.Errorf("failed to set check interval: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set check interval to %ds", secs)

			return nil
		},
	}
}

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}
