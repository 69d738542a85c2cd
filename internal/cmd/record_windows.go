//go:build windows

package cmd

import "os"

// notifyPause is a no-op on Windows; there is no spare user signal to bind
// the pause toggle to.
func notifyPause(ch chan<- os.Signal) {}
