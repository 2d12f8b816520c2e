package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current battery and warning status",
		Long:    `Get battery charge, AC state, warning visibility, and daemon settings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := apiClient.GetStatus()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			conf, err := apiClient.GetConfig()
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			cmd.Println(bold("Battery status:"))
			cmd.Printf("  Current charge: %s\n", bold("%d%%", st.Percent))
			cmd.Println("  AC connected: " + bool2Text(st.ACOnline))

			cmd.Println()
			cmd.Println(bold("Warning:"))
			if st.WarningVisible {
				cmd.Println("  Visible: " + bool2Text(true))
				cmd.Println("    Dismiss it with 'battwarn dismiss', by clicking the overlay button, or by plugging in.")
			} else {
				cmd.Println("  Visible: " + bool2Text(false))
				if st.Percent < st.Threshold {
					cmd.Println("    Charge is below the threshold, but you are on AC power.")
				}
			}

			cmd.Println()
			cmd.Println(bold("Settings:"))
			cmd.Printf("  Threshold: %s\n", bold("%d%%", conf.Threshold))
			cmd.Printf("  Check interval: %s\n", bold("%ds", conf.CheckIntervalSeconds))
			cmd.Printf("  Warning image: %s\n", conf.ImagePath)

			return nil
		},
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
