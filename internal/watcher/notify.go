package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Seams for tests.
var (
	lookPath = exec.LookPath
	run      = func(name string, args ...string) error { return exec.Command(name, args...).Run() }
)

// Notify shows a as a desktop notification: osascript on macOS, notify-send
// on Linux. When neither works the alert is written to stderr.
func Notify(a Alert) error {
	return notify(runtime.GOOS, a, os.Stderr)
}

func notify(goos string, a Alert, fallback io.Writer) error {
	if name, args := notifierCommand(goos, a); name != "" {
		if _, err := lookPath(name); err == nil && run(name, args...) == nil {
			return nil
		}
	}
	_, err := fmt.Fprintf(fallback, "artawatch [%s] %s: %s\n", a.Level, a.Title, a.Message)
	return err
}

// notifierCommand returns the command that shows a on goos, or "" when the
// platform has none.
func notifierCommand(goos string, a Alert) (string, []string) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "artawatch" subtitle %q`, a.Message, a.Title)
		return "osascript", []string{"-e", script}
	case "linux":
		return "notify-send", []string{
			"--app-name=artawatch",
			"--urgency=" + urgency(a.Level),
			"artawatch: " + a.Title,
			a.Message,
		}
	}
	return "", nil
}

func urgency(level string) string {
	switch level {
	case LevelCritical:
		return "critical"
	case LevelWarning:
		return "normal"
	}
	return "low"
}
