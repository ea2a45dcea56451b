// Package app wires configuration, logging, telemetry and the engine stack
// into the operations exposed by the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ciricc/whisper-bench/internal/config"
	"github.com/ciricc/whisper-bench/internal/engine"
	"github.com/ciricc/whisper-bench/internal/history"
	"github.com/ciricc/whisper-bench/internal/telemetry"
	"github.com/ciricc/whisper-bench/internal/transcribe"
)

type Application struct {
	Config  config.Config
	Logger  *slog.Logger
	History *history.Store

	shutdownTracing func(context.Context) error
}

func New(ctx context.Context, cfg config.Config) (*Application, error) {
	log := newLogger(cfg.Log)

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:  "whisper-bench",
		Environment:  cfg.Telemetry.Environment,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
		Stdout:       cfg.Telemetry.Stdout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(ctx, cfg.History.Path, log)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		if err := store.Prune(ctx, cfg.History.RetentionDays, cfg.History.MaxRuns); err != nil {
			log.Warn("History pruning failed", "error", err)
		}
	}

	return &Application{
		Config:          cfg,
		Logger:          log,
		History:         store,
		shutdownTracing: shutdown,
	}, nil
}

func (a *Application) Close(ctx context.Context) error {
	if a.History != nil {
		_ = a.History.Close()
	}
	if a.shutdownTracing != nil {
		return a.shutdownTracing(ctx)
	}
	return nil
}

// NewTranscriber builds a transcriber for the given model selection on the
// configured engine backend. The benchmark runner calls this once per sweep
// entry, batch mode once per file.
func (a *Application) NewTranscriber(model transcribe.Config) (*transcribe.Transcriber, error) {
	eng, err := engine.New(a.Config.Engine.Backend, engine.Params{
		Config:    model,
		Language:  a.Config.Model.Language,
		Logger:    a.Logger,
		PythonExe: a.Config.Engine.PythonExe,
		ServerURL: a.Config.Engine.ServerURL,
		APIKey:    a.Config.Engine.APIKey,
		ModelPath: a.Config.Engine.ModelPath,
	})
	if err != nil {
		return nil, err
	}

	t, err := transcribe.New(eng, model, transcribe.WithLogger(a.Logger))
	if err != nil {
		_ = eng.Close()
		return nil, err
	}
	return t, nil
}

// ModelConfig returns the model selection triple from the configuration.
func (a *Application) ModelConfig() transcribe.Config {
	return transcribe.NewConfig(a.Config.Model.Size, a.Config.Model.Device, a.Config.Model.ComputeType)
}

// Accelerator resolves the non-cpu device used in benchmark comparisons.
func (a *Application) Accelerator() string {
	if a.Config.Benchmark.Accelerator != "" {
		return a.Config.Benchmark.Accelerator
	}
	return transcribe.DefaultAccelerator()
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
