package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var recordFor time.Duration

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the screen until interrupted",
	Long: `Record the selected display into an mp4 file. Stop with Ctrl-C;
SIGUSR1 toggles pause/resume.`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().DurationVar(&recordFor, "for", 0, "stop automatically after this duration")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	co, cfg, log, err := buildCoordinator()
	if err != nil {
		return err
	}

	if err := co.StartRecording(captureConfig(cfg)); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	pause := make(chan os.Signal, 1)
	notifyPause(pause)
	defer signal.Stop(pause)

	var timeout <-chan time.Time
	if recordFor > 0 {
		timer := time.NewTimer(recordFor)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-pause:
			co.TogglePause()
			log.Info("pause toggled", "state", co.State().String(), "elapsed", co.Elapsed().String())
			continue
		case <-stop:
		case <-timeout:
		case <-cmd.Context().Done():
		}
		break
	}

	path, err := co.StopRecording(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
