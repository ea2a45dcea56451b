// Package engine provides the concrete model runtime backends behind the
// transcribe.Engine boundary. Every backend is built for exactly one model
// configuration; benchmark sweeps construct a fresh one per configuration.
package engine

import (
	"log/slog"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// Params configures a backend for one model configuration. Only some fields
// apply to each backend; the rest are ignored.
type Params struct {
	Config transcribe.Config

	// Language is an optional hint. Empty means auto-detect.
	Language string

	Logger *slog.Logger

	// PythonExe is the interpreter command for the fasterwhisper backend,
	// parsed shell-style so it may carry arguments. Defaults to python3.
	PythonExe string

	// ServerURL is the base URL of an OpenAI-compatible transcription
	// server, e.g. http://localhost:8000/v1.
	ServerURL string

	// APIKey is the optional bearer token for the server backend.
	APIKey string

	// ModelPath points the whispercpp backend at a ggml model file.
	ModelPath string
}

func loggerFrom(params Params) *slog.Logger {
	if params.Logger != nil {
		return params.Logger
	}
	return slog.Default()
}
