package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harunnryd/catat/pkg/catat"
	"github.com/harunnryd/catat/pkg/logging"
	"github.com/harunnryd/catat/pkg/runner"
)

func main() {
	configPath := flag.String("config", "config.yaml", "")
	dialTo := flag.String("dial_to", "", "destination number for outbound call")
	dialFrom := flag.String("dial_from", "", "caller ID for outbound call")
	flag.Parse()

	cfg, err := catat.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Flag overrides let an operator dial out without editing the config.
	if *dialTo != "" {
		cfg.Vendors.Source.Settings = withSetting(cfg.Vendors.Source.Settings, "dial_to", *dialTo)
	}
	if *dialFrom != "" {
		cfg.Vendors.Source.Settings = withSetting(cfg.Vendors.Source.Settings, "dial_from", *dialFrom)
	}

	app, err := catat.New(cfg)
	if err != nil {
		slog.Error("app_build_failed", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := runner.NewLifecycleRunner(app.Run, app, runner.Hooks{}, 10*time.Second)
	if err := run.Run(ctx); err != nil {
		slog.Error("exited_with_error", "error", err.Error())
		os.Exit(1)
	}
}

func withSetting(settings map[string]any, key, value string) map[string]any {
	if settings == nil {
		settings = map[string]any{}
	}
	settings[key] = value
	return settings
}
