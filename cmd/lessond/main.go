// lessond is the classroom timetable widget daemon.
//
// It resolves the active lesson or break once a second, keeps the countdown
// and highlight state a frontend renders, watches OS input for user
// activity, and arms scheduled overlay-mode transitions that the user can
// cancel. Clients talk to it over a unix control socket; see lessonctl.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lessond/internal/config"
	"lessond/internal/daemon"
	"lessond/internal/logging"
)

var (
	configPath = flag.String("config", "", "path to config file (default: ~/.lessond/config.toml)")
	logLevel   = flag.String("log-level", "", "override log level (debug, info, warn, error)")
	version    = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("lessond", daemon.Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Output = cfg.Logging.Output
	if cfg.Logging.FilePath != "" {
		logCfg.FilePath = cfg.Logging.FilePath
	}
	levelStr := cfg.Logging.Level
	if *logLevel != "" {
		levelStr = *logLevel
	}
	if logCfg.Level, err = logging.ParseLevel(levelStr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logCfg.Format, err = logging.ParseFormat(cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	d, err := daemon.New(cfg, logger.Logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}
