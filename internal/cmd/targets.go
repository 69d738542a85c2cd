package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blademainer/screen-capture/internal/capture"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List capturable targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := capture.DisplayEnumerator{}.ListTargets()
		if err != nil {
			return err
		}
		for _, t := range targets {
			fmt.Println(t.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
