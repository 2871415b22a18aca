package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"homework_bot/internal/bot"
	"homework_bot/internal/config"
	"homework_bot/internal/failure"
	"homework_bot/internal/fetcher"
	"homework_bot/internal/metrics"
	"homework_bot/internal/scheduler"
)

const (
	exitFailure     = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("load .env", "error", err)
		return exitFailure
	}

	logging := config.LoadLogging()
	log, closeLog, err := newLogger(logging.Level, logging.File)
	if err != nil {
		slog.Error("open log file", "path", logging.File, "error", err)
		return exitFailure
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "kind", failure.KindOf(err), "error", err)
		return exitCode(err)
	}

	m := metrics.New()
	client := &http.Client{Timeout: cfg.RequestTimeout}

	b := bot.New(cfg.TelegramToken, cfg.TelegramChatID, client, m, log)
	f := fetcher.New(client, cfg.PracticumEndpoint, cfg.PracticumToken)
	sched := scheduler.New(f, b, m, log)
	sched.SetTickInterval(cfg.PollInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsPort > 0 {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsPort, log); err != nil {
				log.Error("metrics server", "error", err)
			}
		}()
	}

	log.Info("starting bot", "chat_id", cfg.TelegramChatID)

	sched.Run(ctx)

	log.Info("bot stopped")
	return 0
}

func exitCode(err error) int {
	if failure.Is(err, failure.KindConfigMissing) {
		return exitConfigError
	}
	return exitFailure
}

// newLogger writes to stderr and, when path is set, appends to the log file as well.
func newLogger(level, path string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // operator-supplied path
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stderr, file)
		closeFn = func() { _ = file.Close() }
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}
