package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blademainer/screen-capture/internal/capture"
)

var shotRegion bool

var shotCmd = &cobra.Command{
	Use:   "shot",
	Short: "Capture a single still image",
	RunE:  runShot,
}

func init() {
	shotCmd.Flags().BoolVar(&shotRegion, "region", false, "interactively select a region")
	rootCmd.AddCommand(shotCmd)
}

func runShot(cmd *cobra.Command, args []string) error {
	co, cfg, _, err := buildCoordinator()
	if err != nil {
		return err
	}

	req := captureConfig(cfg)
	if shotRegion {
		req.Mode = capture.TargetRegion
	}

	path, err := co.CaptureStill(cmd.Context(), req)
	if errors.Is(err, capture.ErrUserCancelled) {
		fmt.Println("cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
