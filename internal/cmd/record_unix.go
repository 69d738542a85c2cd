//go:build unix

package cmd

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyPause registers SIGUSR1 as the pause/resume toggle.
func notifyPause(ch chan<- os.Signal) {
	signal.Notify(ch, syscall.SIGUSR1)
}
