package watcher

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func stubNotifier(t *testing.T, found bool, runErr error) *[]string {
	t.Helper()
	var calls []string
	origLook, origRun := lookPath, run
	t.Cleanup(func() { lookPath, run = origLook, origRun })

	lookPath = func(name string) (string, error) {
		if !found {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	run = func(name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return runErr
	}
	return &calls
}

var registrarAlert = Alert{
	Level:   LevelCritical,
	Title:   "Dissatisfaction at Registrar",
	Message: "12.5% of 16 responses are dissatisfied (alert at 10%)",
	Time:    time.Now(),
}

func TestNotifierCommand(t *testing.T) {
	name, args := notifierCommand("linux", registrarAlert)
	if name != "notify-send" {
		t.Fatalf("linux command = %q", name)
	}
	want := []string{"--app-name=artawatch", "--urgency=critical", "artawatch: Dissatisfaction at Registrar", registrarAlert.Message}
	if strings.Join(args, "|") != strings.Join(want, "|") {
		t.Errorf("linux args = %q, want %q", args, want)
	}

	name, args = notifierCommand("darwin", registrarAlert)
	if name != "osascript" || len(args) != 2 || !strings.Contains(args[1], `subtitle "Dissatisfaction at Registrar"`) {
		t.Errorf("darwin command = %q %q", name, args)
	}

	if name, _ := notifierCommand("windows", registrarAlert); name != "" {
		t.Errorf("expected no windows command, got %q", name)
	}
}

func TestUrgency(t *testing.T) {
	for level, want := range map[string]string{
		LevelCritical: "critical",
		LevelWarning:  "normal",
		LevelInfo:     "low",
		"":            "low",
	} {
		if got := urgency(level); got != want {
			t.Errorf("urgency(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestNotify_UsesDesktopNotifier(t *testing.T) {
	calls := stubNotifier(t, true, nil)
	var fallback bytes.Buffer

	if err := notify("linux", registrarAlert, &fallback); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*calls) != 1 || !strings.HasPrefix((*calls)[0], "notify-send ") {
		t.Errorf("calls = %q", *calls)
	}
	if fallback.Len() != 0 {
		t.Errorf("expected no fallback output, got %q", fallback.String())
	}
}

func TestNotify_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		found  bool
		runErr error
		calls  int
	}{
		{"missing binary", "linux", false, nil, 0},
		{"command fails", "darwin", true, errors.New("exit 1"), 1},
		{"unsupported platform", "windows", true, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := stubNotifier(t, tc.found, tc.runErr)
			var fallback bytes.Buffer
			if err := notify(tc.goos, registrarAlert, &fallback); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(*calls) != tc.calls {
				t.Errorf("expected %d calls, got %q", tc.calls, *calls)
			}
			want := "artawatch [critical] Dissatisfaction at Registrar: 12.5% of 16 responses are dissatisfied (alert at 10%)\n"
			if fallback.String() != want {
				t.Errorf("fallback = %q, want %q", fallback.String(), want)
			}
		})
	}
}
