package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blackwell-systems/artawatch/internal/config"
	"github.com/blackwell-systems/artawatch/internal/output"
	"github.com/blackwell-systems/artawatch/internal/watcher"
)

const minWatchInterval = 10 * time.Second

var (
	watchDaemon   bool
	watchInterval time.Duration
	watchStop     bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Alert on new responses and score changes while encoding",
	Long: `Re-read the record collection on an interval while questionnaires are being
encoded. An alert is raised when an office's dissatisfaction rate reaches the
alert level, a charter or SQD score falls below the problem threshold, or new
dissatisfied responses arrive. Alerts go to desktop notifications and the
terminal, or to a log file in daemon mode.

Examples:
  artawatch watch                    # run in foreground (ctrl-c to stop)
  artawatch watch --daemon &         # run in background, write PID file
  artawatch watch --interval 1m      # check every minute (default: 5m)
  artawatch watch --stop             # stop the background daemon`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Write a PID file and log alerts to a file instead of the terminal")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Minute, "Check interval (e.g. 1m, 1h)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(watchCmd)
}

// pidFile holds the PID of a running watch daemon.
type pidFile string

func daemonPIDFile() pidFile {
	return pidFile(filepath.Join(config.ConfigDir(), "watch.pid"))
}

func daemonLogPath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

func (p pidFile) read() (int, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// acquire writes the current PID, replacing a stale file. It fails while
// another daemon is alive.
func (p pidFile) acquire() error {
	if pid, err := p.read(); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
	}
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(string(p), []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func (p pidFile) release() {
	_ = os.Remove(string(p))
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon(daemonPIDFile())
	}
	if watchInterval < minWatchInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, watchInterval)
	}

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	if watchDaemon {
		return runDaemon(ctx, ws, watchInterval)
	}
	return runForeground(ctx, ws, watchInterval)
}

// stopDaemon terminates the daemon recorded in p and removes the file.
func stopDaemon(p pidFile) error {
	pid, err := p.read()
	if err != nil {
		return fmt.Errorf("no daemon running (could not read PID file: %v)", err)
	}
	if !processAlive(pid) {
		p.release()
		return fmt.Errorf("no daemon running (PID %d is not active, cleaned up stale PID file)", pid)
	}
	if err := terminate(pid); err != nil {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}
	p.release()
	fmt.Printf("Stopped daemon (PID %d)\n", pid)
	return nil
}

// newWatcher builds a watcher over the workspace database. Every alert is
// sent as a desktop notification and then passed to sink.
func newWatcher(ws *workspace, interval time.Duration, log *zap.Logger, sink func(watcher.Alert)) *watcher.Watcher {
	th := thresholdsFrom(ws.cfg)
	w := watcher.New(ws.db, interval, watcher.Thresholds{
		Problem:              th.Problem,
		DissatisfactionAlert: th.DissatisfactionAlert,
		MinResponses:         th.LowOfficeMinResponses,
	}, func(a watcher.Alert) {
		if err := watcher.Notify(a); err != nil {
			log.Debug("desktop notification failed", zap.Error(err))
		}
		sink(a)
	})
	w.Logger = log
	return w
}

func runForeground(ctx context.Context, ws *workspace, interval time.Duration) error {
	w := newWatcher(ws, interval, logger.Named("watch"), func(a watcher.Alert) {
		if !watchQuiet {
			printAlert(a)
		}
	})

	initial, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}
	w.Baseline(initial)

	if !watchQuiet {
		fmt.Printf("artawatch watching %s (checking every %s)\n", ws.cfg.DBPath, interval)
		fmt.Printf("[%s] %s Baseline: %d responses, %d dissatisfied, overall SQD %.1f%%\n",
			time.Now().Format("15:04:05"), output.StyleSuccess.Render("✓"),
			initial.Responses, initial.Dissatisfied, initial.OverallSQD)
	}

	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	if !watchQuiet {
		fmt.Println("\nStopped.")
	}
	return nil
}

// runDaemon runs the watcher with alerts logged as JSON lines to the daemon
// log. Backgrounding is left to the shell (nohup, &).
func runDaemon(ctx context.Context, ws *workspace, interval time.Duration) error {
	pids := daemonPIDFile()
	if err := pids.acquire(); err != nil {
		return err
	}
	defer pids.release()

	f, err := os.OpenFile(daemonLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	log := fileLogger(f).Named("watch")
	defer func() { _ = log.Sync() }()

	log.Info("daemon started", zap.Int("pid", os.Getpid()), zap.Duration("interval", interval))
	w := newWatcher(ws, interval, log, func(a watcher.Alert) {
		log.Info(a.Title,
			zap.String("level", a.Level),
			zap.String("message", a.Message),
			zap.Time("at", a.Time),
		)
	})

	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		log.Error("daemon failed", zap.Error(err))
		return err
	}
	log.Info("daemon stopped")
	return nil
}

// fileLogger writes info and above as JSON lines to f.
func fileLogger(f *os.File) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(f), zapcore.InfoLevel))
}

func printAlert(a watcher.Alert) {
	fmt.Printf("[%s] %s %s\n", a.Time.Format("15:04:05"), alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Printf("           %s\n", a.Message)
	}
}

func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleError.Render("●")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("▲")
	case watcher.LevelInfo:
		return output.StyleSuccess.Render("✓")
	}
	return " "
}
