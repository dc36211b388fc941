//go:build windows

package app

import "os"

var shutdownSignals = []os.Signal{os.Interrupt}

// processAlive reports whether pid accepts a null signal. FindProcess alone
// succeeds for any PID on Windows.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(os.Signal(nil)) == nil
}

// terminate kills the daemon; Windows has no SIGTERM.
func terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
