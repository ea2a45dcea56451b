package engine

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

func quietParams() Params {
	return Params{
		Config: transcribe.DefaultConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNewDefaultsToFasterWhisper(t *testing.T) {
	eng, err := New("", quietParams())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := eng.(*FasterWhisper); !ok {
		t.Fatalf("expected fasterwhisper engine, got %T", eng)
	}
}

func TestNewSelectsStub(t *testing.T) {
	eng, err := New(BackendStub, quietParams())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := eng.(*Stub); !ok {
		t.Fatalf("expected stub engine, got %T", eng)
	}
}

func TestNewServerRequiresURL(t *testing.T) {
	if _, err := New(BackendServer, quietParams()); !errors.Is(err, transcribe.ErrModelInitialization) {
		t.Fatalf("expected model initialization error without server URL, got %v", err)
	}

	params := quietParams()
	params.ServerURL = "http://localhost:9000/v1"
	eng, err := New(BackendServer, params)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := eng.(*Server); !ok {
		t.Fatalf("expected server engine, got %T", eng)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New("vosk", quietParams())
	if !errors.Is(err, transcribe.ErrModelInitialization) {
		t.Fatalf("expected model initialization error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown engine backend") {
		t.Errorf("expected error to name the backend problem: %v", err)
	}
}

func TestNewWhisperCPPWithoutNativeBuild(t *testing.T) {
	if NativeAvailable() {
		t.Skip("binary built with whispercpp support")
	}
	_, err := New(BackendWhisperCPP, quietParams())
	if !errors.Is(err, transcribe.ErrModelInitialization) {
		t.Fatalf("expected model initialization error, got %v", err)
	}
	if !strings.Contains(err.Error(), "whispercpp") {
		t.Errorf("expected error to mention the missing build tag: %v", err)
	}
}
