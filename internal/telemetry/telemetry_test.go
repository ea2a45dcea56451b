package telemetry

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSetupWithoutExporter(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "whisper-bench"}, newLogger())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupStdoutExporter(t *testing.T) {
	opts := Options{ServiceName: "whisper-bench", Environment: "test", Stdout: true}
	shutdown, err := Setup(context.Background(), opts, newLogger())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
