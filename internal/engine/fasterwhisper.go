package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ciricc/whisper-bench/internal/transcribe"
	shellwords "github.com/mattn/go-shellwords"
)

//go:embed assets/faster_whisper.py
var fasterWhisperScript []byte

// Exit codes the helper script uses to tell failure stages apart.
const (
	helperExitImport     = 3
	helperExitInit       = 4
	helperExitTranscribe = 5
)

// FasterWhisper shells out to an embedded Python helper that drives the
// faster-whisper runtime. The helper prints one JSON document on stdout;
// everything on stderr is diagnostic.
type FasterWhisper struct {
	params Params
	logger *slog.Logger

	scriptPath string
}

func NewFasterWhisper(params Params) *FasterWhisper {
	return &FasterWhisper{
		params: params,
		logger: loggerFrom(params).With("engine", BackendFasterWhisper),
	}
}

// Initialize runs the helper in load-only mode, which imports the module
// and constructs the model without transcribing anything.
func (e *FasterWhisper) Initialize(ctx context.Context) error {
	_, err := e.runHelper(ctx, transcribe.ErrModelInitialization, "--load-only")
	return err
}

func (e *FasterWhisper) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	out, err := e.runHelper(ctx, transcribe.ErrTranscription, "--audio", audioPath)
	if err != nil {
		return nil, err
	}

	p, err := decodePayload(out)
	if err != nil {
		return nil, fmt.Errorf("%w: bad helper output: %w", transcribe.ErrTranscription, err)
	}
	return resultFromPayload(p), nil
}

// Close removes the materialized helper script.
func (e *FasterWhisper) Close() error {
	if e.scriptPath == "" {
		return nil
	}
	path := e.scriptPath
	e.scriptPath = ""
	return os.Remove(path)
}

// ensureScript writes the embedded helper to a temp file once per engine.
func (e *FasterWhisper) ensureScript() error {
	if e.scriptPath != "" {
		return nil
	}

	f, err := os.CreateTemp("", "faster_whisper_*.py")
	if err != nil {
		return err
	}
	if _, err := f.Write(fasterWhisperScript); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}

	e.scriptPath = f.Name()
	return nil
}

func (e *FasterWhisper) runHelper(ctx context.Context, fallback error, extra ...string) ([]byte, error) {
	if err := e.ensureScript(); err != nil {
		return nil, fmt.Errorf("%w: write helper script: %w", transcribe.ErrModelInitialization, err)
	}

	python := e.params.PythonExe
	if python == "" {
		python = "python3"
	}
	argv, err := shellwords.Parse(python)
	if err != nil || len(argv) == 0 {
		return nil, fmt.Errorf("%w: bad python command %q", transcribe.ErrModelInitialization, python)
	}

	args := append(argv[1:], e.scriptPath,
		"--model", e.params.Config.ModelSize,
		"--device", mapDevice(e.params.Config.Device),
		"--compute-type", e.params.Config.ComputeType,
	)
	if e.params.Language != "" {
		args = append(args, "--language", e.params.Language)
	}
	args = append(args, extra...)

	e.logger.DebugContext(ctx, "Running helper", "python", argv[0], "args", args)

	cmd := exec.CommandContext(ctx, argv[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, helperError(err, stderr.String(), fallback)
	}
	return stdout.Bytes(), nil
}

// mapDevice translates device names into what faster-whisper accepts. Metal
// and CUDA are both auto-detected by the runtime, so everything except cpu
// collapses to auto.
func mapDevice(device string) string {
	if device == transcribe.DeviceCPU {
		return "cpu"
	}
	return "auto"
}

// helperError classifies a helper failure by its exit code, falling back to
// the caller's sentinel when the code is not one of ours.
func helperError(err error, stderr string, fallback error) error {
	detail := strings.TrimSpace(stderr)
	if detail == "" {
		detail = err.Error()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case helperExitImport:
			return fmt.Errorf("%w: faster_whisper is not importable, install with: pip install faster-whisper: %s",
				transcribe.ErrModelInitialization, detail)
		case helperExitInit:
			return fmt.Errorf("%w: %s", transcribe.ErrModelInitialization, detail)
		case helperExitTranscribe:
			return fmt.Errorf("%w: %s", transcribe.ErrTranscription, detail)
		}
	}
	return fmt.Errorf("%w: %s", fallback, detail)
}

var _ transcribe.Engine = (*FasterWhisper)(nil)
