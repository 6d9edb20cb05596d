// Package main is the entry point for the Hostbeat telemetry agent.
// It loads configuration, wires the metric sources into the polling loop,
// and runs as either a Windows service or a standalone foreground process.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hostbeat/agent/internal/collector"
	"github.com/hostbeat/agent/internal/config"
	"github.com/hostbeat/agent/internal/scheduler"
	"github.com/hostbeat/agent/internal/sender"
	"github.com/hostbeat/agent/internal/service"
	"github.com/hostbeat/agent/internal/snapshot"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "agent.yaml", "Path to configuration file")
	showVersion = flag.Bool("version", false, "Show version and exit")
	runOnce     = flag.Bool("once", false, "Collect and deliver a single snapshot, then exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("hostbeat-agent %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting Hostbeat agent",
		zap.String("version", version),
		zap.String("agent_id", cfg.ResolveAgentID()),
		zap.String("ingest_url", cfg.Ingest.URL))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	loop := buildLoop(cfg, logger)

	if *runOnce {
		if err := loop.RunOnce(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	if service.IsWindowsService() {
		logger.Info("Running as Windows service")
		svc := service.New(logger, loop.Run)
		if err := svc.Run(); err != nil {
			logger.Fatal("Service failed", zap.Error(err))
		}
		return
	}

	// Standalone foreground process
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		cancel()
	}()

	loop.Run(ctx)
	logger.Info("Agent stopped")
}

// buildLoop wires the sources, assembler, and sender into the polling loop.
func buildLoop(cfg *config.Config, logger *zap.Logger) *scheduler.Loop {
	registry := collector.NewRegistry(logger)
	registry.Register(collector.NewCPUSource())
	registry.Register(collector.NewMemorySource())
	registry.Register(collector.NewDiskSource())
	registry.Register(collector.NewProcessSource(cfg.Collection.MaxProcesses))
	registry.Register(collector.NewEventsSource(cfg.Collection.MaxEvents))

	assembler := snapshot.New(registry, cfg, logger)
	snd := sender.New(cfg, logger, version)

	logger.Info("Agent running",
		zap.Duration("interval", cfg.Collection.Interval.Duration),
		zap.Duration("sleep_floor", cfg.Collection.SleepFloor.Duration))

	return scheduler.New(assembler, snd, cfg, logger)
}

// initLogger creates a zap logger based on the configuration.
// It outputs to console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
