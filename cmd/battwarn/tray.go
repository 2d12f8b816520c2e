package main

import (
	"github.com/spf13/cobra"

	"github.com/battwarn/battwarn/pkg/tray"
)

func NewTrayCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tray",
		Short:   "Run the menubar companion",
		GroupID: gAdvanced,
		Long: `Run the battwarn menubar companion.

It shows the current charge in the system tray and offers quick access to dismissing the warning. The daemon must be running separately.`,
		Run: func(_ *cobra.Command, _ []string) {
			tray.Run(unixSocketPath)
		},
	}
}
